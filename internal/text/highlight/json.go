package highlight

import (
	"fmt"

	"github.com/inkwell-editor/inkwell/internal/text/hostiface"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// EncodeSpans serializes spans as a JSON array of {"start":n,"end":n,
// "kind":"..."} objects, for transporting a SyntaxParser's output across a
// process boundary (an out-of-process PEG grammar server, say). Grounded
// on the teacher's use of tidwall/gjson+sjson for ad-hoc JSON manipulation
// in internal/integration, where a full schema type per message shape was
// judged not worth it for a small, flat record like this.
func EncodeSpans(spans []hostiface.Span) ([]byte, error) {
	doc := "[]"
	var err error
	for i, sp := range spans {
		doc, err = sjson.Set(doc, fmt.Sprintf("%d.start", i), sp.Range.Start)
		if err != nil {
			return nil, err
		}
		doc, err = sjson.Set(doc, fmt.Sprintf("%d.end", i), sp.Range.End)
		if err != nil {
			return nil, err
		}
		doc, err = sjson.Set(doc, fmt.Sprintf("%d.kind", i), sp.Kind)
		if err != nil {
			return nil, err
		}
	}
	return []byte(doc), nil
}

// DecodeSpans parses the JSON array produced by EncodeSpans (or an
// equivalent out-of-process parser) back into []hostiface.Span.
func DecodeSpans(data []byte) ([]hostiface.Span, error) {
	result := gjson.ParseBytes(data)
	if !result.IsArray() {
		return nil, fmt.Errorf("highlight: expected a JSON array of spans")
	}

	var spans []hostiface.Span
	var parseErr error
	result.ForEach(func(_, value gjson.Result) bool {
		start := value.Get("start")
		end := value.Get("end")
		kind := value.Get("kind")
		if !start.Exists() || !end.Exists() {
			parseErr = fmt.Errorf("highlight: span missing start/end")
			return false
		}
		spans = append(spans, hostiface.Span{
			Range: hostiface.ByteRange{Start: start.Uint(), End: end.Uint()},
			Kind:  kind.String(),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return spans, nil
}
