package payload

import "strings"

// Symbology is the barcode format reported by a scanner next to the
// decoded text. The empty value means the format is unknown.
type Symbology string

const (
	SymbologyNone       Symbology = ""
	SymbologyQR         Symbology = "qr"
	SymbologyAztec      Symbology = "aztec"
	SymbologyDataMatrix Symbology = "datamatrix"
	SymbologyPDF417     Symbology = "pdf417"
	SymbologyEAN13      Symbology = "ean13"
	SymbologyEAN8       Symbology = "ean8"
	SymbologyUPCA       Symbology = "upca"
	SymbologyUPCE       Symbology = "upce"
	SymbologyCode128    Symbology = "code128"
	SymbologyCode39     Symbology = "code39"
	SymbologyCode93     Symbology = "code93"
	SymbologyITF        Symbology = "itf"
	SymbologyCodabar    Symbology = "codabar"
)

type symbologyInfo struct {
	name    string
	aliases []string
	product bool
	twoD    bool
}

var symbologies = map[Symbology]symbologyInfo{
	SymbologyQR:         {name: "QR Code", aliases: []string{"qrcode", "qr_code"}, twoD: true},
	SymbologyAztec:      {name: "Aztec", twoD: true},
	SymbologyDataMatrix: {name: "Data Matrix", aliases: []string{"data_matrix"}, twoD: true},
	SymbologyPDF417:     {name: "PDF417", aliases: []string{"pdf_417"}, twoD: true},
	SymbologyEAN13:      {name: "EAN-13", aliases: []string{"ean_13"}, product: true},
	SymbologyEAN8:       {name: "EAN-8", aliases: []string{"ean_8"}, product: true},
	SymbologyUPCA:       {name: "UPC-A", aliases: []string{"upc_a"}, product: true},
	SymbologyUPCE:       {name: "UPC-E", aliases: []string{"upc_e"}, product: true},
	SymbologyCode128:    {name: "Code 128", aliases: []string{"code_128"}},
	SymbologyCode39:     {name: "Code 39", aliases: []string{"code_39"}},
	SymbologyCode93:     {name: "Code 93", aliases: []string{"code_93"}},
	SymbologyITF:        {name: "ITF", aliases: []string{"itf14", "itf_14", "interleaved2of5", "i2of5"}},
	SymbologyCodabar:    {name: "Codabar"},
}

// ParseSymbology maps scanner tags ("QR", "org.iso.QRCode", "EAN-13",
// "org.gs1.UPC-E", ...) onto a Symbology. Unrecognized tags return
// SymbologyNone and false.
func ParseSymbology(s string) (Symbology, bool) {
	t := strings.ToLower(strings.TrimSpace(s))
	t = strings.TrimPrefix(t, "org.iso.")
	t = strings.TrimPrefix(t, "org.gs1.")
	t = strings.ReplaceAll(t, "-", "")
	t = strings.ReplaceAll(t, " ", "")
	if t == "" {
		return SymbologyNone, false
	}
	for sym, info := range symbologies {
		if t == string(sym) || t == strings.ReplaceAll(strings.ToLower(info.name), " ", "") {
			return sym, true
		}
		for _, a := range info.aliases {
			if t == a || t == strings.ReplaceAll(a, "_", "") {
				return sym, true
			}
		}
	}
	return SymbologyNone, false
}

// DisplayName returns the human-readable format name, or "" for unknown
// symbologies.
func (s Symbology) DisplayName() string { return symbologies[s].name }

// IsProductCode reports whether s is a retail product code (EAN/UPC).
func (s Symbology) IsProductCode() bool { return symbologies[s].product }

// IsTwoDimensional reports whether s is a matrix or stacked symbology that
// can carry arbitrary text.
func (s Symbology) IsTwoDimensional() bool { return symbologies[s].twoD }

// GS1CheckDigit computes the GS1 mod-10 check digit for a string of digits
// without its check digit.
func GS1CheckDigit(digits string) (int, bool) {
	if digits == "" || !allDigits(digits) {
		return 0, false
	}
	sum := 0
	// Weights alternate 3,1 starting from the rightmost digit.
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if (len(digits)-1-i)%2 == 0 {
			d *= 3
		}
		sum += d
	}
	return (10 - sum%10) % 10, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

const code39Charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-. $/+%"

// ValidateForSymbology checks that text can be carried by sym. Unknown
// symbologies and 2D formats accept any non-empty text.
func ValidateForSymbology(sym Symbology, text string) error {
	if text == "" {
		return invalid("text", "is required")
	}
	if sym.IsTwoDimensional() {
		return nil
	}
	switch sym {
	case SymbologyEAN13:
		return checkGS1(text, 13)
	case SymbologyEAN8:
		return checkGS1(text, 8)
	case SymbologyUPCA:
		return checkGS1(text, 12)
	case SymbologyUPCE:
		if len(text) != 8 || !allDigits(text) {
			return invalid("text", "UPC-E needs 8 digits")
		}
	case SymbologyITF:
		if !allDigits(text) || len(text)%2 != 0 {
			return invalid("text", "ITF needs an even number of digits")
		}
	case SymbologyCode39:
		for _, c := range text {
			if !strings.ContainsRune(code39Charset, c) {
				return invalid("text", "Code 39 cannot encode %q", c)
			}
		}
	case SymbologyCode93, SymbologyCode128:
		for i := 0; i < len(text); i++ {
			if text[i] > 0x7e {
				return invalid("text", "%s accepts ASCII only", sym.DisplayName())
			}
		}
	case SymbologyCodabar:
		for _, c := range text {
			if !strings.ContainsRune("0123456789-$:/.+ABCD", c) {
				return invalid("text", "Codabar cannot encode %q", c)
			}
		}
	}
	return nil
}

func checkGS1(text string, n int) error {
	if len(text) != n || !allDigits(text) {
		return invalid("text", "needs exactly %d digits", n)
	}
	want, _ := GS1CheckDigit(text[:n-1])
	if int(text[n-1]-'0') != want {
		return invalid("text", "check digit should be %d", want)
	}
	return nil
}
