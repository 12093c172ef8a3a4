// Command action verifies RSC archives as a GitHub Actions step.
//
// Inputs:
//
//	archives            newline-separated archive paths (required)
//	validate-checksums  "false" to skip checksum validation (default true)
//	round-trip          "false" to skip the byte-exact re-encode check (default true)
//
// Outputs: entries and holes, summed over all archives.
package main

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/sethvargo/go-githubactions"

	"github.com/meigma/rsc"
	"github.com/meigma/rsc/internal/archivefile"
)

func main() {
	archives := splitLines(githubactions.GetInput("archives"))
	if len(archives) == 0 {
		githubactions.Fatalf("input %q is required", "archives")
	}
	validate := boolInput("validate-checksums", true)
	roundTrip := boolInput("round-trip", true)

	var entries, holes, failed int
	for _, path := range archives {
		res, err := verify(path, validate, roundTrip)
		if err != nil {
			githubactions.Errorf("%s: %v", path, err)
			failed++
			continue
		}
		githubactions.Infof("%s: %d resources, %d holes", path, res.resources, res.holes)
		entries += res.resources
		holes += res.holes
	}

	githubactions.SetOutput("entries", strconv.Itoa(entries))
	githubactions.SetOutput("holes", strconv.Itoa(holes))
	if failed > 0 {
		githubactions.Fatalf("%d of %d archives failed verification", failed, len(archives))
	}
}

var errRoundTrip = errors.New("re-encoded archive differs from input")

type result struct {
	resources, holes int
}

func verify(path string, validate, roundTrip bool) (result, error) {
	data, err := archivefile.Read(path)
	if err != nil {
		return result{}, err
	}
	entries, err := rsc.Decode(data,
		rsc.WithIncludeEmpty(true),
		rsc.WithValidateChecksums(validate))
	if err != nil {
		return result{}, err
	}
	if roundTrip && !bytes.Equal(rsc.Encode(entries), data) {
		return result{}, errRoundTrip
	}
	resources := len(rsc.Resources(entries))
	return result{resources: resources, holes: len(entries) - resources}, nil
}

func boolInput(name string, def bool) bool {
	raw := strings.TrimSpace(githubactions.GetInput(name))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		githubactions.Warningf("ignoring invalid %q input %q: %v", name, raw, err)
		return def
	}
	return v
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
