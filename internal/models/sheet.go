package models

// Sheet is the raw content of a spreadsheet's first worksheet, with
// source-native column names. Every row has len(Header) cells.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of the named column, or -1.
func (s *Sheet) ColumnIndex(name string) int {
	for i, h := range s.Header {
		if h == name {
			return i
		}
	}
	return -1
}
