// Package counts reads and writes the per-item count tables: the input
// and output counts of every item on the way in, and the posterior
// summary joined back to the items on the way out.
package counts

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/op/go-logging"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"

	"bitbucket.org/rmaillard/gofit/posterior"
)

var log = logging.MustGetLogger("counts")

// Pseudocount is added to every input count before the counts are used
// as Dirichlet weights, so items never seen in the input stay in the
// model.
const Pseudocount = 1

// Table holds one row per item: an opaque identifier and the input and
// output counts.
type Table struct {
	IDs    []string
	Input  []float64
	Output []float64
}

// Read parses a count table from CSV. The first three columns are
// identifier, input count and output count; extra columns are ignored
// and a header row is detected and skipped.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	t := &Table{}
	row := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row++
		if len(rec) < 3 {
			return nil, fmt.Errorf("row %d: expected at least 3 columns, got %d", row, len(rec))
		}
		in, err1 := strconv.ParseFloat(rec[1], 64)
		out, err2 := strconv.ParseFloat(rec[2], 64)
		if err1 != nil || err2 != nil {
			// a non-numeric first row is a header
			if row == 1 {
				continue
			}
			return nil, fmt.Errorf("row %d: non-numeric count", row)
		}
		if in < 0 || out < 0 {
			return nil, fmt.Errorf("row %d: negative count", row)
		}
		t.IDs = append(t.IDs, rec[0])
		t.Input = append(t.Input, in)
		t.Output = append(t.Output, out)
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("no items in the count table")
	}
	log.Infof("Read %d items (total input %g, total output %g)",
		t.Len(), floats.Sum(t.Input), floats.Sum(t.Output))
	return t, nil
}

// ReadFile reads a count table from a CSV file.
func ReadFile(filename string) (*Table, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Len returns the number of items.
func (t *Table) Len() int {
	return len(t.IDs)
}

// ZX returns the model vectors: z is the input counts plus the
// pseudocount, x is the output counts. Both are copies.
func (t *Table) ZX() (z, x []float64) {
	z = make([]float64, t.Len())
	x = make([]float64, t.Len())
	for i := range t.IDs {
		z[i] = t.Input[i] + Pseudocount
		x[i] = t.Output[i]
	}
	return z, x
}

// SetOutput replaces the output counts, keeping identifiers and input
// counts. Used when refitting on synthetic data.
func (t *Table) SetOutput(x []float64) error {
	if len(x) != t.Len() {
		return fmt.Errorf("expected %d output counts, got %d", t.Len(), len(x))
	}
	t.Output = append([]float64(nil), x...)
	return nil
}

// Subsample returns a uniform random subset of n items in the original
// order. Asking for at least as many items as the table holds returns
// a full copy.
func (t *Table) Subsample(rng *rand.Rand, n int) (*Table, error) {
	if n <= 0 {
		return nil, fmt.Errorf("subsample size must be positive, got %d", n)
	}
	if n >= t.Len() {
		log.Warningf("Subsample of %d requested from %d items, keeping all", n, t.Len())
		n = t.Len()
	}
	idx := rng.Perm(t.Len())[:n]
	sort.Ints(idx)

	sub := &Table{
		IDs:    make([]string, n),
		Input:  make([]float64, n),
		Output: make([]float64, n),
	}
	for i, j := range idx {
		sub.IDs[i] = t.IDs[j]
		sub.Input[i] = t.Input[j]
		sub.Output[i] = t.Output[j]
	}
	log.Infof("Subsampled %d of %d items", n, t.Len())
	return sub, nil
}

// WriteSummary writes one CSV row per item: the identifier and counts
// joined with the posterior summary of the item.
func (t *Table) WriteSummary(w io.Writer, s *posterior.Summary) error {
	if len(s.Items) != t.Len() {
		return fmt.Errorf("summary of %d items does not match table of %d", len(s.Items), t.Len())
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"clone", "input", "output", "w", "mean_w", "p5_w", "p95_w", "std_w"}); err != nil {
		return err
	}
	for i, it := range s.Items {
		rec := []string{
			t.IDs[i],
			fmtFloat(t.Input[i]),
			fmtFloat(t.Output[i]),
			fmtFloat(it.Median),
			fmtFloat(it.Mean),
			fmtFloat(it.P5),
			fmtFloat(it.P95),
			fmtFloat(it.SD),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryFile writes the joined summary to a CSV file.
func (t *Table) WriteSummaryFile(filename string, s *posterior.Summary) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.WriteSummary(f, s)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
