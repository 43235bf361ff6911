package products

import "strings"

// Filter keeps the products whose name, farmer or location contains term,
// ignoring case. A blank term keeps everything.
func Filter(list []ProductDTO, term string) []ProductDTO {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return list
	}
	out := make([]ProductDTO, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Farmer), needle) ||
			strings.Contains(strings.ToLower(p.Location), needle) {
			out = append(out, p)
		}
	}
	return out
}
