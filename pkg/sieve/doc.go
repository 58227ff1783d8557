// Package sieve curates Python code snippets for model training. It
// measures every snippet, rejects the ones that break fixed quality rules
// and removes statistical outliers among the rest.
//
// Quick start:
//
//	s, err := sieve.New(sieve.WithContamination(0.1))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	res, _ := s.Curate([]map[string]any{{"content": "def add(a, b):\n    return a + b\n"}})
//	fmt.Println(len(res.FinalGood), res.Counts["rule-bad"])
//
// A Sieve is safe for concurrent use; calls are serialised internally.
// Persistence is left to the caller; the sieve command wires document
// stores and NDJSON exports around the same engine.
package sieve
