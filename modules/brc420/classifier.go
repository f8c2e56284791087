package brc420

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"
)

type ContentKind int

const (
	ContentKindBinary ContentKind = iota
	ContentKindPlainText
	ContentKindStructured
)

// Content is the decoded form of an inscription payload, produced once per
// inscription. Downstream processors match on Kind instead of re-parsing raw
// bytes.
type Content struct {
	Kind        ContentKind
	ContentType string
	Raw         []byte

	// Text is set for ContentKindPlainText.
	Text string

	// Structured is set for ContentKindStructured.
	Structured *StructuredPayload
}

// StructuredPayload carries the JSON fields a brc-420 operation may use. Max
// and Price keep their literal form; range checks happen in validation.
type StructuredPayload struct {
	Protocol string      `json:"p"`
	Op       string      `json:"op"`
	Id       string      `json:"id"`
	Name     string      `json:"name"`
	Max      flexLiteral `json:"max"`
	Price    flexLiteral `json:"price"`
}

// flexLiteral accepts both a JSON number and a JSON string, keeping the bare
// literal.
type flexLiteral string

func (f *flexLiteral) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexLiteral(s)
		return nil
	}
	*f = flexLiteral(data)
	return nil
}

// DecodeContent turns a raw payload into its tagged variant. A JSON object
// decodes as Structured, a JSON string as the text it quotes, anything else
// printable as PlainText, the rest as Binary.
func DecodeContent(raw []byte, contentType string) Content {
	content := Content{
		Kind:        ContentKindBinary,
		ContentType: contentType,
		Raw:         raw,
	}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		var payload StructuredPayload
		if err := json.Unmarshal(raw, &payload); err == nil {
			content.Kind = ContentKindStructured
			content.Structured = &payload
			return content
		}
	}
	if strings.HasPrefix(trimmed, `"`) {
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			content.Kind = ContentKindPlainText
			content.Text = strings.TrimSpace(text)
			return content
		}
	}
	if utf8.ValidString(trimmed) {
		content.Kind = ContentKindPlainText
		content.Text = trimmed
	}
	return content
}

type Claim interface {
	isClaim()
}

type DeployClaim struct {
	// SourceId is the content-addressed inscription id later mints
	// reference.
	SourceId string
	Name     string
	Max      string
	Price    string
}

type MintClaim struct {
	// DeploySourceId references the deploy by its source id.
	DeploySourceId string

	// Legacy marks the plain "/content/<id>" shorthand form.
	Legacy bool
}

type BitmapClaim struct {
	Number  int64
	Content string
}

type ParcelClaim struct {
	ParcelNumber int64
	BitmapNumber int64
	Content      string
}

func (DeployClaim) isClaim() {}
func (MintClaim) isClaim()   {}
func (BitmapClaim) isClaim() {}
func (ParcelClaim) isClaim() {}

const protocolTag = "brc-420"

// Classify determines which claim family a decoded content represents.
// Returns nil for unrecognized content; that is a skip, not an error.
func Classify(content Content) Claim {
	switch content.Kind {
	case ContentKindStructured:
		payload := content.Structured
		if payload.Protocol != protocolTag {
			return nil
		}
		switch payload.Op {
		case "deploy":
			return DeployClaim{
				SourceId: payload.Id,
				Name:     payload.Name,
				Max:      string(payload.Max),
				Price:    string(payload.Price),
			}
		case "mint":
			return MintClaim{DeploySourceId: payload.Id}
		}
		return nil
	case ContentKindPlainText:
		text := content.Text
		if rest, ok := strings.CutPrefix(text, "/content/"); ok {
			id, _, _ := strings.Cut(rest, "/")
			if id == "" {
				return nil
			}
			return MintClaim{DeploySourceId: id, Legacy: true}
		}
		if !strings.HasSuffix(text, ".bitmap") {
			return nil
		}
		parts := strings.Split(text, ".")
		switch len(parts) {
		case 3:
			// "<parcel>.<bitmap>.bitmap" must be checked before the
			// two-part form since both share the suffix
			parcelNumber, err := parseClaimNumber(parts[0])
			if err != nil {
				return nil
			}
			bitmapNumber, err := parseClaimNumber(parts[1])
			if err != nil {
				return nil
			}
			return ParcelClaim{
				ParcelNumber: parcelNumber,
				BitmapNumber: bitmapNumber,
				Content:      text,
			}
		case 2:
			number, err := parseClaimNumber(parts[0])
			if err != nil {
				return nil
			}
			return BitmapClaim{Number: number, Content: text}
		}
		return nil
	default:
		return nil
	}
}

// parseClaimNumber parses a non-negative base-10 integer. ParseUint rejects
// signs, matching the digits-only claim patterns.
func parseClaimNumber(s string) (int64, error) {
	n, err := strconv.ParseUint(s, 10, 63)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}
