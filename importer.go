package mbcbigp

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

//Importer reads numeric CSV data into a dense matrix.
type Importer struct {
}

func NewImporter() *Importer {
	return &Importer{}
}

//Import will read columns start through end (inclusive) of a CSV file. Rows
//containing non-numeric entries in that range, such as a header, are skipped.
func (im *Importer) Import(file string, start, end int) (*mat.Dense, error) {
	if start < 0 || end < 0 || start > end {
		return nil, ErrInvalidRange
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		r = csv.NewReader(bufio.NewReader(f))
		w = end - start + 1
		d []float64
		n int
	)

Main:
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if len(record) <= end {
			return nil, ErrInvalidRange
		}

		row := make([]float64, 0, w)
		for j := start; j <= end; j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue Main
			}
			row = append(row, v)
		}
		d = append(d, row...)
		n++
	}

	if n == 0 {
		return nil, ErrEmptySet
	}
	return mat.NewDense(n, w, d), nil
}

//ImportAll will import every column of the file, sniffing the width from the
//first record.
func (im *Importer) ImportAll(file string) (*mat.Dense, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	rec, err := csv.NewReader(bufio.NewReader(f)).Read()
	f.Close()
	if err != nil {
		return nil, err
	}
	return im.Import(file, 0, len(rec)-1)
}
