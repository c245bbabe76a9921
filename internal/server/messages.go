package server

// User-facing messages. The UI is Persian, matching the original front-end;
// server-supplied error texts are shown as-is.
const (
	msgFileRequired     = "لطفاً فایل ورودی را انتخاب کنید."
	msgAllFilesRequired = "لطفاً همهٔ فایل‌های مورد نیاز را انتخاب کنید."
	msgRequestFailed    = "خطا در ارتباط با سرور. لطفاً دوباره تلاش کنید."
)
