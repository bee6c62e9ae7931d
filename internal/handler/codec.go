package handler

import (
	"bytes"
	"io"
	"math"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/inventory-pos/internal/coerce"
	"github.com/xenking/inventory-pos/internal/domain/product"
	"github.com/xenking/inventory-pos/internal/domain/sale"
)

// errBodyTooLarge is returned when a request body exceeds the configured cap.
var errBodyTooLarge = errors.New("request entity too large")

// BodyError indicates a request body that is not valid JSON.
type BodyError struct {
	Err error
}

func (e *BodyError) Error() string { return "invalid JSON body: " + e.Err.Error() }

func (e *BodyError) Unwrap() error { return e.Err }

// readObject decodes the request body into a generic JSON object. An empty
// body and a top-level array decode as an empty object, matching a lenient
// JSON body parser.
func (h *Handler) readObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errBodyTooLarge
		}
		return nil, errors.Wrap(err, "read body")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	d := jx.DecodeBytes(data)
	v, err := decodeValue(d)
	if err != nil {
		return nil, &BodyError{Err: err}
	}
	if d.Next() != jx.Invalid {
		return nil, &BodyError{Err: errors.New("unexpected data after top-level value")}
	}

	switch v := v.(type) {
	case map[string]any:
		return v, nil
	case []any:
		return map[string]any{}, nil
	default:
		return nil, &BodyError{Err: errors.New("body must be an object or array")}
	}
}

// decodeValue reads any JSON value into the shapes produced by
// encoding/json: map[string]any, []any, string, float64, bool or nil.
func decodeValue(d *jx.Decoder) (any, error) {
	switch tt := d.Next(); tt {
	case jx.String:
		return d.Str()
	case jx.Number:
		return d.Float64()
	case jx.Bool:
		return d.Bool()
	case jx.Null:
		return nil, d.Null()
	case jx.Array:
		arr := []any{}
		err := d.Arr(func(d *jx.Decoder) error {
			v, err := decodeValue(d)
			if err != nil {
				return err
			}
			arr = append(arr, v)
			return nil
		})
		return arr, err
	case jx.Object:
		obj := map[string]any{}
		err := d.Obj(func(d *jx.Decoder, key string) error {
			v, err := decodeValue(d)
			if err != nil {
				return err
			}
			obj[key] = v
			return nil
		})
		return obj, err
	default:
		return nil, errors.Errorf("unexpected %s", tt)
	}
}

// createFields maps a create request. Falsy strings fall back to defaults;
// numbers use numeric-or-zero.
func createFields(obj map[string]any) product.Fields {
	return product.Fields{
		Name:        ptr(coerce.StringOr(obj["name"], "")),
		Description: ptr(coerce.StringOr(obj["description"], "")),
		Category:    ptr(coerce.StringOr(obj["category"], "")),
		Image:       ptr(coerce.StringOr(obj["image"], "")),
		Price:       ptr(coerce.Number(obj["price"])),
		Quantity:    ptr(coerce.Int(obj["quantity"])),
	}
}

// updateFields maps an update request. Absent or null strings keep the stored
// value; price and quantity are always replaced.
func updateFields(obj map[string]any) product.Fields {
	return product.Fields{
		Name:        nullable(obj, "name"),
		Description: nullable(obj, "description"),
		Category:    nullable(obj, "category"),
		Image:       nullable(obj, "image"),
		Price:       ptr(coerce.Number(obj["price"])),
		Quantity:    ptr(coerce.Int(obj["quantity"])),
	}
}

func nullable(obj map[string]any, key string) *string {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	return ptr(coerce.String(v))
}

// saleItems maps the items array of a sale request. A missing, non-array or
// empty items value yields nil.
func saleItems(obj map[string]any) []sale.LineItem {
	raw, ok := obj["items"].([]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	items := make([]sale.LineItem, len(raw))
	for i, v := range raw {
		it, _ := v.(map[string]any)
		items[i] = sale.LineItem{
			ProductID: coerce.Int(it["productId"]),
			Qty:       coerce.Int(it["qty"]),
			UnitPrice: coerce.Number(it["unitPrice"]),
		}
	}
	return items
}

// parseID converts a path id the way Number() would. ok is false when the
// value is not an integer, so it can never match a stored product.
func parseID(raw string) (int64, bool) {
	f := coerce.Number(raw)
	if f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

func ptr[T any](v T) *T { return &v }

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
		e.Field("price", func(e *jx.Encoder) { e.Float64(p.Price) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int64(p.Quantity) })
		e.Field("image", func(e *jx.Encoder) { e.Str(p.Image) })
	})
}

func encodeSale(e *jx.Encoder, s sale.Sale) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(s.ID) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, it := range s.Items {
					e.Obj(func(e *jx.Encoder) {
						e.Field("productId", func(e *jx.Encoder) { e.Int64(it.ProductID) })
						e.Field("qty", func(e *jx.Encoder) { e.Int64(it.Qty) })
						e.Field("unitPrice", func(e *jx.Encoder) { e.Float64(it.UnitPrice) })
					})
				}
			})
		})
		e.Field("timestamp", func(e *jx.Encoder) { e.Str(s.Timestamp) })
	})
}

func encodeGroups(e *jx.Encoder, groups []sale.ReportGroup) {
	e.Arr(func(e *jx.Encoder) {
		for _, g := range groups {
			e.Obj(func(e *jx.Encoder) {
				e.Field("productId", func(e *jx.Encoder) { e.Int64(g.ProductID) })
				e.Field("qty", func(e *jx.Encoder) { e.Int64(g.Qty) })
				e.Field("revenue", func(e *jx.Encoder) { e.Float64(g.Revenue) })
				e.Field("name", func(e *jx.Encoder) { e.Str(g.Name) })
			})
		}
	})
}

func encodeSummary(e *jx.Encoder, s *sale.Summary) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("report", func(e *jx.Encoder) { encodeGroups(e, s.Report) })
		e.Field("totalRevenue", func(e *jx.Encoder) { e.Float64(s.TotalRevenue) })
		e.Field("topSelling", func(e *jx.Encoder) { encodeGroups(e, s.TopSelling) })
	})
}

// writeJSON responds with status and the document produced by encode.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeMessage responds with {"error": msg}.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("error", func(e *jx.Encoder) { e.Str(msg) })
		})
	})
}
