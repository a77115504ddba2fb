package apiclient

import "net/url"

// Query builds "?k=v&..." from params, skipping empty values. It returns ""
// when nothing is left.
func Query(params map[string]string) string {
	v := url.Values{}
	for k, val := range params {
		if val != "" {
			v.Set(k, val)
		}
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}
