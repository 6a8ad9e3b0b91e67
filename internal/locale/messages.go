package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys shown to site visitors and editors.
const (
	MsgSaved         = "saved"
	MsgSaveFailed    = "save_failed"
	MsgUploadFailed  = "upload_failed"
	MsgNotAnImage    = "not_an_image"
	MsgUploadBusy    = "upload_busy"
	MsgFileTooLarge  = "file_too_large"
	MsgRequiredField = "required_field"
	MsgInvalidEmail  = "invalid_email"
	MsgContactSent   = "contact_sent"
	MsgContactFailed = "contact_failed"
	MsgUnauthorized  = "unauthorized"
	MsgNavHome       = "nav.home"
	MsgNavAbout      = "nav.about"
	MsgNavProjects   = "nav.projects"
	MsgNavClients    = "nav.clients"
	MsgNavContact    = "nav.contact"
)

var translations = map[Locale]map[string]string{
	Arabic: {
		MsgSaved:         "تم الحفظ بنجاح",
		MsgSaveFailed:    "فشل الحفظ",
		MsgUploadFailed:  "فشل رفع الصورة",
		MsgNotAnImage:    "يرجى اختيار ملف صورة",
		MsgUploadBusy:    "جارٍ رفع صورة أخرى",
		MsgFileTooLarge:  "حجم الملف كبير جداً",
		MsgRequiredField: "هذا الحقل مطلوب",
		MsgInvalidEmail:  "البريد الإلكتروني غير صالح",
		MsgContactSent:   "تم إرسال رسالتك بنجاح",
		MsgContactFailed: "تعذر إرسال الرسالة",
		MsgUnauthorized:  "غير مصرح",
		MsgNavHome:       "الرئيسية",
		MsgNavAbout:      "من نحن",
		MsgNavProjects:   "مشاريعنا",
		MsgNavClients:    "عملاؤنا",
		MsgNavContact:    "اتصل بنا",
	},
	English: {
		MsgSaved:         "Saved successfully",
		MsgSaveFailed:    "Save failed",
		MsgUploadFailed:  "Image upload failed",
		MsgNotAnImage:    "Please choose an image file",
		MsgUploadBusy:    "Another upload is in progress",
		MsgFileTooLarge:  "File is too large",
		MsgRequiredField: "This field is required",
		MsgInvalidEmail:  "Invalid email address",
		MsgContactSent:   "Your message has been sent",
		MsgContactFailed: "Your message could not be sent",
		MsgUnauthorized:  "Unauthorized",
		MsgNavHome:       "Home",
		MsgNavAbout:      "About Us",
		MsgNavProjects:   "Our Projects",
		MsgNavClients:    "Our Clients",
		MsgNavContact:    "Contact Us",
	},
}

var messages = newCatalog()

func newCatalog() *catalog.Builder {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for loc, entries := range translations {
		for key, text := range entries {
			if err := builder.SetString(loc.Tag(), key, text); err != nil {
				panic(err)
			}
		}
	}
	return builder
}

// Printer returns a message printer for l backed by the site catalog.
func Printer(l Locale) *message.Printer {
	tag := l.Tag()
	if tag == language.Und {
		tag = language.English
	}
	return message.NewPrinter(tag, message.Catalog(messages))
}

// Message returns the translation of key for l.
func Message(l Locale, key string, args ...any) string {
	return Printer(l).Sprintf(key, args...)
}
