// Command genmock writes a deterministic mock damage-report CSV for local
// runs and tests. Each neighborhood gets its own reporting rate and data
// quality so the resulting profiles spread across the metric range: some
// neighborhoods report steadily, some sporadically, some send blank or
// out-of-range cells, a few send unparseable timestamps, and every tenth
// neighborhood stays silent.
//
// Usage:
//
//	go run ./cmd/genmock -out data/reports.csv -neighborhoods 19 -hours 30 -seed 7
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/couchcryptid/storm-data-reliability/internal/domain"
)

var baseDate = time.Date(2020, time.April, 6, 0, 0, 0, 0, time.UTC)

// quality describes how one mock neighborhood reports.
type quality struct {
	perHour     float64 // mean reports per hour
	missing     float64 // probability a damage cell is blank
	outOfRange  float64 // probability a present cell falls outside [0,10]
	badTime     float64 // probability of an unparseable timestamp
	noise       float64 // standard deviation around the neighborhood's true damage
	severity    float64 // true damage level
	activeHours int     // reports stop after this many hours
}

type mockRow struct {
	at  time.Time
	rec domain.RawRecord
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/reports.csv", "output path for the mock report CSV")
	count := flag.Int("neighborhoods", 19, "number of neighborhoods (ids 1..n)")
	hours := flag.Int("hours", 30, "length of the reporting window in hours")
	seed := flag.Uint64("seed", 7, "random seed")
	flag.Parse()

	if *count < 1 || *hours < 1 {
		flag.Usage()
		return fmt.Errorf("-neighborhoods and -hours must be positive")
	}

	rows := generate(rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)), *count, *hours)

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	defer f.Close()

	if err := writeCSV(f, rows); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	log.Printf("wrote %d reports for %d neighborhoods to %s", len(rows), *count, *out)
	return nil
}

func generate(rng *rand.Rand, count, hours int) []mockRow {
	var rows []mockRow
	for id := 1; id <= count; id++ {
		if id%10 == 0 {
			continue // silent neighborhood
		}
		q := qualityFor(rng, hours)
		loc := strconv.Itoa(id)

		for h := 0; h < q.activeHours; h++ {
			n := poisson(rng, q.perHour)
			for range n {
				at := baseDate.Add(time.Duration(h)*time.Hour + time.Duration(rng.IntN(3600))*time.Second)
				rows = append(rows, mockRow{at: at, rec: mockRecord(rng, q, loc, at)})
			}
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].at.Before(rows[j].at) })
	return rows
}

func qualityFor(rng *rand.Rand, hours int) quality {
	return quality{
		perHour:     0.3 + rng.Float64()*6,
		missing:     rng.Float64() * 0.4,
		outOfRange:  rng.Float64() * 0.05,
		badTime:     rng.Float64() * 0.02,
		noise:       0.2 + rng.Float64()*3,
		severity:    rng.Float64() * 10,
		activeHours: max(1, hours-rng.IntN(hours/2+1)),
	}
}

func mockRecord(rng *rand.Rand, q quality, loc string, at time.Time) domain.RawRecord {
	rec := domain.RawRecord{
		Location: loc,
		Time:     at.Format("2006-01-02 15:04:05"),
	}
	if rng.Float64() < q.badTime {
		rec.Time = "unknown"
	}
	for _, f := range domain.DamageFields {
		if rng.Float64() < q.missing {
			continue
		}
		v := q.severity + rng.NormFloat64()*q.noise
		if rng.Float64() < q.outOfRange {
			v = domain.MaxScore + 1 + rng.Float64()*5
		} else {
			v = min(domain.MaxScore, max(domain.MinScore, v))
		}
		rec.SetColumn(f, strconv.FormatFloat(v, 'f', 1, 64))
	}
	return rec
}

// poisson draws from a Poisson distribution with the given mean (Knuth).
func poisson(rng *rand.Rand, mean float64) int {
	l := math.Exp(-mean)
	k, p := 0, 1.0
	for {
		p *= rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}

func writeCSV(w io.Writer, rows []mockRow) error {
	cw := csv.NewWriter(w)
	header := []string{"time"}
	for _, f := range domain.DamageFields {
		header = append(header, f.String())
	}
	header = append(header, "location")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		line := []string{r.rec.Time}
		for _, f := range domain.DamageFields {
			line = append(line, r.rec.Column(f))
		}
		line = append(line, r.rec.Location)
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
