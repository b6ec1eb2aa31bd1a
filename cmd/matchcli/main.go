/*
This command compares two contract-file documents interaction by
interaction and reports every mismatch found.

For the list of command line options, run:

	matchcli -help

For details about the matching semantics, see the documentation of the
root contract and matching packages.
*/
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/cdcmatch/matchcore/contract"
	"github.com/cdcmatch/matchcore/matching"
	"github.com/cdcmatch/matchcore/pactfile"
)

type interactionResult struct {
	Description string              `json:"description"`
	Mismatches  []matching.Mismatch `json:"mismatches"`
}

func main() {
	cfg := NewConfig()
	if err := cfg.Parse(); err != nil {
		log.Fatalf("Error processing config: %s", err)
	}

	level, err := cfg.ApplicationLogLevel()
	if err != nil {
		log.Fatalf("invalid log level: %s", err)
	}
	log.SetLevel(level)

	runID := uuid.NewString()
	log.WithField("run", runID).Infof("matching %s against %s", cfg.Expected, cfg.Actual)

	expectedDoc, err := loadDocument(cfg.Expected)
	if err != nil {
		log.Fatal(err)
	}
	actualDoc, err := loadDocument(cfg.Actual)
	if err != nil {
		log.Fatal(err)
	}

	results, err := matchDocuments(expectedDoc, actualDoc)
	if err != nil {
		log.Fatal(err)
	}

	if err := printResults(os.Stdout, cfg.Output, results); err != nil {
		log.Fatal(err)
	}

	for _, r := range results {
		if len(r.Mismatches) > 0 {
			os.Exit(1)
		}
	}
}

func loadDocument(path string) (*pactfile.Document, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := pactfile.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return doc, nil
}

// matchDocuments pairs up interactions by position. A mismatched
// interaction count is logged, not an error: the shorter list bounds how
// many pairs are compared.
func matchDocuments(expected, actual *pactfile.Document) ([]interactionResult, error) {
	if len(expected.Interactions) != len(actual.Interactions) {
		log.Warnf("expected document has %d interactions, actual has %d; comparing the first %d",
			len(expected.Interactions), len(actual.Interactions), min(len(expected.Interactions), len(actual.Interactions)))
	}

	n := min(len(expected.Interactions), len(actual.Interactions))
	results := make([]interactionResult, 0, n)

	for i := 0; i < n; i++ {
		e := expected.Interactions[i]
		a := actual.Interactions[i]

		expectedReq, err := e.Request.ToContract()
		if err != nil {
			return nil, fmt.Errorf("interaction %d (%s) expected request: %w", i, e.Description, err)
		}
		actualReq, err := a.Request.ToContract()
		if err != nil {
			return nil, fmt.Errorf("interaction %d (%s) actual request: %w", i, e.Description, err)
		}
		expectedResp, err := e.Response.ToContract()
		if err != nil {
			return nil, fmt.Errorf("interaction %d (%s) expected response: %w", i, e.Description, err)
		}
		actualResp, err := a.Response.ToContract()
		if err != nil {
			return nil, fmt.Errorf("interaction %d (%s) actual response: %w", i, e.Description, err)
		}

		var mismatches []matching.Mismatch
		mismatches = append(mismatches, contract.MatchRequest(expectedReq, actualReq)...)
		mismatches = append(mismatches, contract.MatchResponse(expectedResp, actualResp)...)

		results = append(results, interactionResult{Description: e.Description, Mismatches: mismatches})
	}

	return results, nil
}

func printResults(w io.Writer, format string, results []interactionResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, r := range results {
		if len(r.Mismatches) == 0 {
			fmt.Fprintf(w, "%s: OK\n", r.Description)
			continue
		}
		fmt.Fprintf(w, "%s: %d mismatch(es)\n", r.Description, len(r.Mismatches))
		for _, m := range r.Mismatches {
			fmt.Fprintf(w, "  - %s\n", m.Description())
		}
	}

	return nil
}
