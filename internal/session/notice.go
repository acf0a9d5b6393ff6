package session

import (
	"context"
	"errors"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	msgcat "golang.org/x/text/message/catalog"

	"innospark/internal/domain"
	"innospark/internal/ledger"
)

// Notice levels.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelError   = "error"
)

// Notice is the transient message a client shows once, in place of a
// browser alert.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Message keys double as the English text.
const (
	msgDonationThanks   = "Thank you! Your support of Rp %d has been delivered."
	msgApplicationSent  = "Application Sent!"
	msgApplicationDone  = "Volunteer application %s."
	msgProjectStatus    = "Project %s is now %s."
	msgWelcomeBack      = "Welcome back, %s!"
	msgWelcomeNew       = "Welcome to %s, %s!"
	msgLoggedOut        = "You have been signed out."
	msgRoleUpdated      = "Account Updated: You are now a %s. Enjoy full access!"
	msgBrandingSaved    = "Branding Updated Successfully! Changes are now live across the platform."
	msgProposalSent     = "Your collaboration proposal to %s has been sent! The partner will review it within 72 hours."
	msgProjectSubmitted = "Hooray! Your project has been registered."
	msgDemoAdded        = "%d demo projects added."

	msgSubmitFailed    = "Failed to submit the project. Please try again later."
	msgAuthFailed      = "Incorrect email or password."
	msgEmailTaken      = "That email is already registered."
	msgLoginVolunteer  = "Please sign in to volunteer!"
	msgLoginRequired   = "Please sign in to continue."
	msgForbidden       = "You do not have access to this action."
	msgNotFound        = "That item is no longer available."
	msgInvalidAmount   = "Please enter a donation amount above zero."
	msgAmountTooLarge  = "Donations are limited to Rp %d at a time."
	msgSlotsFilled     = "All slots for this skill are already filled."
	msgAlreadyDecided  = "This application has already been reviewed."
	msgInvalidInput    = "Please check the form and try again."
	msgUnknownCategory = "Unknown category."
)

var indonesian = map[string]string{
	msgDonationThanks:   "Terima kasih! Dukungan Rp %d berhasil disalurkan.",
	msgApplicationSent:  "Lamaran terkirim!",
	msgApplicationDone:  "Lamaran relawan %s.",
	msgProjectStatus:    "Proyek %s kini berstatus %s.",
	msgWelcomeBack:      "Selamat datang kembali, %s!",
	msgWelcomeNew:       "Selamat datang di %s, %s!",
	msgLoggedOut:        "Anda telah keluar.",
	msgRoleUpdated:      "Akun diperbarui: Anda sekarang %s. Nikmati akses penuh!",
	msgBrandingSaved:    "Branding berhasil diperbarui! Perubahan kini aktif di seluruh platform.",
	msgProposalSent:     "Proposal kolaborasi Anda untuk %s telah terkirim! Mitra industri akan meninjau dalam waktu 72 jam.",
	msgProjectSubmitted: "Hore! Proyek kamu berhasil didaftarkan ke database.",
	msgDemoAdded:        "%d proyek demo ditambahkan.",

	msgSubmitFailed:    "Gagal mengirim proyek. Silakan coba lagi nanti.",
	msgAuthFailed:      "Email atau kata sandi salah.",
	msgEmailTaken:      "Email tersebut sudah terdaftar.",
	msgLoginVolunteer:  "Silakan masuk untuk menjadi relawan!",
	msgLoginRequired:   "Silakan masuk untuk melanjutkan.",
	msgForbidden:       "Anda tidak memiliki akses untuk tindakan ini.",
	msgNotFound:        "Data tersebut sudah tidak tersedia.",
	msgInvalidAmount:   "Masukkan nominal dukungan lebih dari nol.",
	msgAmountTooLarge:  "Donasi dibatasi maksimal Rp %d per transaksi.",
	msgSlotsFilled:     "Semua slot untuk keahlian ini sudah terisi.",
	msgAlreadyDecided:  "Lamaran ini sudah ditinjau.",
	msgInvalidInput:    "Periksa kembali formulir lalu coba lagi.",
	msgUnknownCategory: "Kategori tidak dikenal.",
}

var (
	supported = []language.Tag{language.English, language.Indonesian}
	matcher   = language.NewMatcher(supported)
	messages  = buildCatalog()
)

func buildCatalog() *msgcat.Builder {
	b := msgcat.NewBuilder(msgcat.Fallback(language.English))
	for key, id := range indonesian {
		_ = b.SetString(language.English, key, key)
		_ = b.SetString(language.Indonesian, key, id)
	}
	return b
}

// printerFor picks the closest supported language. Unknown or empty
// locales print English.
func printerFor(locale string) *message.Printer {
	tag := language.English
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			_, idx, conf := matcher.Match(parsed)
			if conf != language.No {
				tag = supported[idx]
			}
		}
	}
	return message.NewPrinter(tag, message.Catalog(messages))
}

type localeKey struct{}

// WithLocale stores the locale notices are printed in.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

func localeFrom(ctx context.Context, fallback string) string {
	if v, ok := ctx.Value(localeKey{}).(string); ok && v != "" {
		return v
	}
	return fallback
}

func notice(p *message.Printer, level, key string, args ...any) *Notice {
	return &Notice{Level: level, Message: p.Sprintf(key, args...)}
}

// errorNotice maps a domain failure onto the message a user sees.
func errorNotice(p *message.Printer, err error) *Notice {
	if errors.Is(err, ledger.ErrAmountTooLarge) {
		return notice(p, LevelError, msgAmountTooLarge, ledger.MaxDonationAmount)
	}
	key := msgInvalidInput
	switch {
	case errors.Is(err, errEmailTaken):
		key = msgEmailTaken
	case errors.Is(err, errAuthFailed):
		key = msgAuthFailed
	case errors.Is(err, errUnknownCategory):
		key = msgUnknownCategory
	case errors.Is(err, domain.ErrUnauthorized):
		key = msgLoginRequired
	case errors.Is(err, domain.ErrForbidden):
		key = msgForbidden
	case errors.Is(err, domain.ErrNotFound):
		key = msgNotFound
	case errors.Is(err, domain.ErrInvalidAmount):
		key = msgInvalidAmount
	case errors.Is(err, domain.ErrSlotsFilled):
		key = msgSlotsFilled
	case errors.Is(err, domain.ErrAlreadyDecided):
		key = msgAlreadyDecided
	case errors.Is(err, domain.ErrStoreUnavailable):
		key = msgSubmitFailed
	}
	return notice(p, LevelError, key)
}
