package main

import "github.com/Raof-Rasti/timetabling-project/cmd/timetablectl/cmd"

func main() {
	cmd.Execute()
}
