package tokens

// ContainsTokens reports whether value recursively contains any token
// handle: a string containing the "${TfToken[" marker, a float64 number
// carrying the encoded-number marker, or a container holding one.
func ContainsTokens(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return handlePattern.MatchString(v)
	case float64:
		return hasNumberMarker(v)
	case map[string]interface{}:
		for _, vv := range v {
			if ContainsTokens(vv) {
				return true
			}
		}
		return false
	case []interface{}:
		for _, vv := range v {
			if ContainsTokens(vv) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
