package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"
)

// Field names as they appear in stored documents.
const (
	FieldUserID    = "userId"
	FieldUserEmail = "userEmail"
	FieldAmount    = "amount"
	FieldType      = "type"
	FieldStatus    = "status"
	FieldTimestamp = "timestamp"
	FieldRemarks   = "remarks"
)

// Document is a raw record handed over by a store: its store-assigned id and
// its field map.
type Document struct {
	ID     string
	Fields map[string]any
}

// ValidationError describes why a document could not become a Transaction.
type ValidationError struct {
	DocumentID string
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	id := e.DocumentID
	if id == "" {
		id = "<no id>"
	}
	if e.Field == "" {
		return fmt.Sprintf("document %s: %s", id, e.Reason)
	}
	return fmt.Sprintf("document %s: field %q: %s", id, e.Field, e.Reason)
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Parse converts doc into a Transaction, rejecting missing required fields,
// values of the wrong kind, negative amounts and unknown type/status values.
func Parse(doc Document) (Transaction, error) {
	fail := func(field, reason string, args ...any) (Transaction, error) {
		return Transaction{}, &ValidationError{DocumentID: doc.ID, Field: field, Reason: fmt.Sprintf(reason, args...)}
	}
	if strings.TrimSpace(doc.ID) == "" {
		return fail("", "missing id")
	}

	userID, err := requiredString(doc.Fields, FieldUserID)
	if err != nil {
		return fail(FieldUserID, "%v", err)
	}
	email, err := optionalString(doc.Fields, FieldUserEmail)
	if err != nil {
		return fail(FieldUserEmail, "%v", err)
	}
	remarks, err := optionalString(doc.Fields, FieldRemarks)
	if err != nil {
		return fail(FieldRemarks, "%v", err)
	}

	rawAmount, ok := present(doc.Fields, FieldAmount)
	if !ok {
		return fail(FieldAmount, "required")
	}
	amount, err := toDecimal(rawAmount)
	if err != nil {
		return fail(FieldAmount, "%v", err)
	}
	if amount.IsNegative() {
		return fail(FieldAmount, "must not be negative, got %s", amount.String())
	}

	rawType, err := requiredString(doc.Fields, FieldType)
	if err != nil {
		return fail(FieldType, "%v", err)
	}
	typ, ok := lookup(Types, rawType)
	if !ok {
		return fail(FieldType, "unknown value %q%s", rawType, suggest(rawType, Types))
	}

	rawStatus, err := requiredString(doc.Fields, FieldStatus)
	if err != nil {
		return fail(FieldStatus, "%v", err)
	}
	status, ok := lookup(Statuses, rawStatus)
	if !ok {
		return fail(FieldStatus, "unknown value %q%s", rawStatus, suggest(rawStatus, Statuses))
	}

	rawTS, ok := present(doc.Fields, FieldTimestamp)
	if !ok {
		return fail(FieldTimestamp, "required")
	}
	ts, err := toTime(rawTS)
	if err != nil {
		return fail(FieldTimestamp, "%v", err)
	}

	return Transaction{
		ID:        doc.ID,
		UserID:    userID,
		UserEmail: email,
		Amount:    amount,
		Type:      typ,
		Status:    status,
		Timestamp: ts,
		Remarks:   remarks,
	}, nil
}

// ParseAll parses docs in order. Documents that fail validation are left out
// of the result and their errors returned; the relative order of the rest is
// unchanged.
func ParseAll(docs []Document) ([]Transaction, []error) {
	out := make([]Transaction, 0, len(docs))
	var rejected []error
	for _, doc := range docs {
		tx, err := Parse(doc)
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		out = append(out, tx)
	}
	return out, rejected
}

func present(fields map[string]any, key string) (any, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func requiredString(fields map[string]any, key string) (string, error) {
	v, ok := present(fields, key)
	if !ok {
		return "", errors.New("required")
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("want string, got %T", v)
	}
	if strings.TrimSpace(s) == "" {
		return "", errors.New("required")
	}
	return s, nil
}

func optionalString(fields map[string]any, key string) (string, error) {
	v, ok := present(fields, key)
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("want string, got %T", v)
	}
	return strings.TrimSpace(s), nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, fmt.Errorf("not a finite number")
		}
		return decimal.NewFromFloat(n), nil
	case float32:
		if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
			return decimal.Decimal{}, fmt.Errorf("not a finite number")
		}
		return decimal.NewFromFloat32(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int32:
		return decimal.NewFromInt32(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("not a number: %q", n)
		}
		return d, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("want number, got %T", v)
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, errors.New("zero time")
		}
		return t, nil
	case int64:
		return time.UnixMilli(t).UTC(), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || math.Abs(t) > math.MaxInt64 {
			return time.Time{}, errors.New("not finite epoch millis")
		}
		return time.UnixMilli(int64(t)).UTC(), nil
	case json.Number:
		ms, err := t.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("not epoch millis: %q", t.String())
		}
		return time.UnixMilli(ms).UTC(), nil
	case string:
		raw := strings.TrimSpace(t)
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognised time %q", t)
	default:
		return time.Time{}, fmt.Errorf("want time, got %T", v)
	}
}

func lookup[T ~string](known []T, raw string) (T, bool) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	for _, k := range known {
		if string(k) == norm {
			return k, true
		}
	}
	var zero T
	return zero, false
}

// suggest names the closest known value when it is a plausible typo.
func suggest[T ~string](raw string, known []T) string {
	norm := strings.ToLower(strings.TrimSpace(raw))
	best, bestDist := "", -1
	for _, k := range known {
		d := levenshtein.ComputeDistance(norm, string(k))
		if bestDist < 0 || d < bestDist {
			best, bestDist = string(k), d
		}
	}
	if bestDist < 0 || bestDist > 3 {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}
