package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Spanish)

// formatInt entero con separador de miles en español.
func formatInt(n int) string { return printer.Sprintf("%d", n) }

// formatMoney costo en bolivianos con dos decimales: "Bs 12,50".
func formatMoney(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return "Bs " + printer.Sprintf("%.2f", f)
}

// protectData deja visibles los primeros y últimos visible caracteres.
func protectData(s string, visible int) string {
	if s == "" {
		return "No disponible"
	}
	r := []rune(s)
	if len(r) <= visible*2 {
		return s
	}
	return string(r[:visible]) + strings.Repeat("*", len(r)-visible*2) + string(r[len(r)-visible:])
}

var mesesCortos = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"}

// formatFecha "19 oct 2026, 10:05". Acepta RFC 3339 o "2006-01-02 15:04:05";
// otro texto se devuelve tal cual.
func formatFecha(s string) string {
	if strings.TrimSpace(s) == "" {
		return "No disponible"
	}
	var t time.Time
	var err error
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err = time.Parse(layout, s); err == nil {
			break
		}
	}
	if err != nil {
		return s
	}
	return formatTime(t)
}

func formatTime(t time.Time) string {
	return fmt.Sprintf("%d %s %d, %02d:%02d", t.Day(), mesesCortos[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

func siNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
