package viz

// IndexKey is the field stamped onto every sanitized record holding its
// original array position, used as a stable rendering key.
const IndexKey = "_index"

// Sanitize normalizes a raw record sequence against a set of required
// numeric fields. Each output record is a shallow copy of its input with
// nil or missing required fields defaulted to 0 and IndexKey stamped with
// the original position. The zero-default is deliberate: it trades silent
// visual distortion for robustness against partial upstream failures, so
// callers that must distinguish "missing" from "zero" pre-filter before
// sanitizing. Nil input yields an empty sequence, never a panic.
func Sanitize(data []map[string]any, required []string) []map[string]any {
	out := make([]map[string]any, 0, len(data))
	for i, rec := range data {
		cp := make(map[string]any, len(rec)+1)
		for k, v := range rec {
			cp[k] = v
		}
		for _, field := range required {
			if v, ok := cp[field]; !ok || v == nil {
				cp[field] = 0
			}
		}
		cp[IndexKey] = i
		out = append(out, cp)
	}
	return out
}
