package ingestion

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestReadCSVFile_TableDriven(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name      string
		content   string
		priceKey  string
		wantErr   error
		wantRecs  int
		malformed int
		invalid   int
		firstPx   float64
	}{
		{
			name:     "ticker date adj_close",
			content:  "ticker,date,adj_close\nBBB,2020-03-02,50\nBBB,2020-03-03,51\nBBB,2020-03-04,49.5\n",
			priceKey: "adj_close", wantRecs: 3, firstPx: 50,
		},
		{
			name:     "messy header",
			content:  "Date, Adj-Close ,Volume\n01-02-2020,10,100\n",
			priceKey: "adj_close", wantRecs: 1, firstPx: 10,
		},
		{
			name:     "canonical header is idempotent",
			content:  "ticker,date,price\nx,2020-01-02,7\n",
			priceKey: "adj_close", wantRecs: 1, firstPx: 7,
		},
		{
			name:     "bad rows skipped",
			content:  "date,close\n2020-01-02,1\n2020-01-03\n2020-01-04,abc\nnope,3\n",
			priceKey: "close", wantRecs: 1, malformed: 1, invalid: 2, firstPx: 1,
		},
		{
			name:     "byte order mark before header",
			content:  "\ufeffdate,adj_close\n2020-03-02,50\n2020-03-03,51\n",
			priceKey: "adj_close", wantRecs: 2, firstPx: 50,
		},
		{
			name:     "missing price column",
			content:  "date,close\n2020-01-02,1\n",
			priceKey: "adj_close", wantErr: ErrMissingColumn,
		},
		{
			name:     "missing date column",
			content:  "day,adj_close\n2020-01-02,1\n",
			priceKey: "adj_close", wantErr: ErrMissingColumn,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempFile(t, dir, "bbb_prc.csv", tc.content)
			recs, st, err := ReadCSVFile(context.Background(), path, "bbb", tc.priceKey)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(recs) != tc.wantRecs {
				t.Fatalf("records: want %d got %d", tc.wantRecs, len(recs))
			}
			if st.Malformed != tc.malformed || st.Invalid != tc.invalid {
				t.Fatalf("unexpected stats %+v", st)
			}
			if recs[0].Price != tc.firstPx || recs[0].Ticker != "bbb" {
				t.Fatalf("unexpected first record %+v", recs[0])
			}
		})
	}
}

func TestReadCSVFile_EmptyAndMissing(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := ReadCSVFile(context.Background(), filepath.Join(dir, "none_prc.csv"), "none", "adj_close"); err == nil {
		t.Fatalf("expected open error")
	}
	path := writeTempFile(t, dir, "empty_prc.csv", "")
	if _, _, err := ReadCSVFile(context.Background(), path, "empty", "adj_close"); err == nil {
		t.Fatalf("expected header error")
	}
}

func TestReadCSVFile_DatesAreCalendarDays(t *testing.T) {
	path := writeTempFile(t, t.TempDir(), "ccc_prc.csv", "date,adj_close\n2020-03-02 15:30:00,1\n")
	recs, _, err := ReadCSVFile(context.Background(), path, "ccc", "adj_close")
	if err != nil || len(recs) != 1 {
		t.Fatalf("recs=%v err=%v", recs, err)
	}
	if !recs[0].Date.Equal(time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date not truncated: %v", recs[0].Date)
	}
}
