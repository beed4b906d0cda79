package notation

import "fmt"

// identOf returns the identifier of an enumeration value, or a descriptive
// placeholder if the value is out of range.
func identOf[T ~int](kind string, idents []string, v T) string {
	if v < 0 || int(v) >= len(idents) {
		return fmt.Sprintf("%s(%d)", kind, int(v))
	}
	return idents[v]
}

func parseIdent[T ~int](kind string, idents []string, s string) (T, error) {
	for i, ident := range idents {
		if ident == s {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

func marshalIdent[T ~int](kind string, idents []string, v T) ([]byte, error) {
	if v < 0 || int(v) >= len(idents) {
		return nil, fmt.Errorf("invalid %s %d", kind, int(v))
	}
	return []byte(idents[v]), nil
}
