package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"

	"pummel/internal/runner"
)

// ExportCSV writes one row per attempt, in issue order.
func ExportCSV(res *runner.Result, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"index", "status", "elapsed_ms", "success", "bytes", "error"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, o := range res.Outcomes {
		record := []string{
			strconv.Itoa(o.Index),
			strconv.Itoa(o.Status),
			strconv.FormatFloat(float64(o.Elapsed.Microseconds())/1000.0, 'f', 3, 64),
			strconv.FormatBool(o.Success),
			strconv.FormatInt(o.Bytes, 10),
			o.ErrorMsg,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// ExportJSON writes the full sealed result, outcomes included.
func ExportJSON(res *runner.Result, filename string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// ExportSummary writes the aggregated metrics only.
func ExportSummary(s Summary, filename string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// ExportAll writes the csv, json and summary files for a prefix.
func ExportAll(res *runner.Result, prefix string) error {
	if err := ExportCSV(res, prefix+".csv"); err != nil {
		return err
	}
	if err := ExportJSON(res, prefix+".json"); err != nil {
		return err
	}
	return ExportSummary(Summarize(res), prefix+"_summary.json")
}
