package probes

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nodepulse/nodepulse/internal/errors"
)

const procStatPath = "/proc/stat"

// ForksProbe reports the cumulative fork count since boot, read from the
// "processes" line of /proc/stat.
type ForksProbe struct {
	// Path overrides the /proc/stat location, for tests.
	Path string
}

func (ForksProbe) Name() string { return "forks" }

func (p ForksProbe) Collect(ctx context.Context) ([]Sample, error) {
	path := p.Path
	if path == "" {
		path = procStatPath
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open proc stat")
	}
	defer f.Close()

	forks, err := parseForksTotal(f)
	if err != nil {
		return nil, err
	}

	return []Sample{{Type: TypeProcfs, Name: "forks_total", Value: formatUint(forks)}}, nil
}

// parseForksTotal scans /proc/stat content for the "processes" line,
// which holds the number of forks since boot.
func parseForksTotal(r io.Reader) (uint64, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 2 && fields[0] == "processes" {
			forks, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				return 0, errors.Wrapf(err, "parse processes value %q", fields[1])
			}
			return forks, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, errors.Wrap(err, "scan proc stat")
	}
	return 0, fmt.Errorf("no processes line in proc stat")
}
