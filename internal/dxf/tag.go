package dxf

import "strconv"

// Tag is one group-code/value pair from the exchange format. Values are kept
// as strings regardless of container encoding; typed readers convert on
// demand so the ASCII and binary scanners can share one parser.
type Tag struct {
	Code  int
	Value string
}

// Float converts the tag value to a float64.
func (t Tag) Float() (float64, error) {
	return strconv.ParseFloat(t.Value, 64)
}

// Int converts the tag value to an int.
func (t Tag) Int() (int, error) {
	return strconv.Atoi(t.Value)
}

// tagList is an entity's raw tags with positional lookup helpers.
type tagList []Tag

// first returns the first tag with the given code.
func (l tagList) first(code int) (Tag, bool) {
	for _, t := range l {
		if t.Code == code {
			return t, true
		}
	}
	return Tag{}, false
}

// firstFloat returns the first tag with the given code parsed as float64.
func (l tagList) firstFloat(code int) (float64, bool) {
	t, ok := l.first(code)
	if !ok {
		return 0, false
	}
	f, err := t.Float()
	if err != nil {
		return 0, false
	}
	return f, true
}

// firstInt returns the first tag with the given code parsed as int.
func (l tagList) firstInt(code int) (int, bool) {
	t, ok := l.first(code)
	if !ok {
		return 0, false
	}
	n, err := t.Int()
	if err != nil {
		return 0, false
	}
	return n, true
}

// firstString returns the first tag value with the given code.
func (l tagList) firstString(code int) (string, bool) {
	t, ok := l.first(code)
	if !ok {
		return "", false
	}
	return t.Value, true
}
