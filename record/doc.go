// Package record loads delimited text into named records.
//
// A loader reads a header row, discards it (or uses it as the field list)
// and maps each remaining row positionally onto a fixed schema:
//
//	recs, err := record.Load(r, []string{"id", "firstName", "lastName", "age"}, nil)
//	if err != nil {
//	    return err
//	}
//	age, err := recs[0].Int("age")
//
// Header-keyed loading is used for benchmark exports whose column set is
// wide and not fixed in advance:
//
//	recs, err := record.LoadHeaderFile("benchmark.csv", nil)
//
// Rows shorter than the schema fail with ErrShortRow; trailing extra
// fields are kept in Record.Extra.
package record
