package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/AgentOS/fileops/internal/domain/executor"
	"github.com/GriffinCanCode/AgentOS/fileops/internal/driver"
)

var errNoInput = errors.New("input closed before a value was entered")

func promptWorkers(scanner *bufio.Scanner, out io.Writer) (int, error) {
	fmt.Fprint(out, "Enter the number of workers: ")
	line, err := readLine(scanner)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid number of workers: %q", line)
	}
	return n, nil
}

// resolveOps turns --ops into one operation per worker. A single value is
// repeated, and an empty list prompts for each worker.
func resolveOps(scanner *bufio.Scanner, out io.Writer, workers int, values []string) ([]executor.Op, error) {
	switch {
	case len(values) == 1:
		op := parseOrDefault(out, 0, values[0])
		ops := make([]executor.Op, workers)
		for i := range ops {
			ops[i] = op
		}
		return ops, nil
	case len(values) == workers:
		ops := make([]executor.Op, workers)
		for i, v := range values {
			ops[i] = parseOrDefault(out, i+1, v)
		}
		return ops, nil
	case len(values) > 0:
		return nil, fmt.Errorf("got %d operations for %d workers", len(values), workers)
	}

	fmt.Fprint(out, driver.Menu())
	ops := make([]executor.Op, workers)
	for i := range ops {
		fmt.Fprintf(out, "Enter operation for worker %d (1-%d): ", i+1, len(executor.Ops))
		line, err := readLine(scanner)
		if err != nil {
			return nil, err
		}
		ops[i] = parseOrDefault(out, i+1, line)
	}
	return ops, nil
}

func parseOrDefault(out io.Writer, worker int, value string) executor.Op {
	op, ok := driver.ParseOp(value)
	if !ok {
		if worker > 0 {
			fmt.Fprintf(out, "Invalid operation %q for worker %d. Defaulting to read operation.\n", value, worker)
		} else {
			fmt.Fprintf(out, "Invalid operation %q. Defaulting to read operation.\n", value)
		}
	}
	return op
}

func readLine(scanner *bufio.Scanner) (string, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errNoInput
	}
	return strings.TrimSpace(scanner.Text()), nil
}
