package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
)

// ghadapter runs ppmdiff with -summary and exports the summary as step
// outputs. Exit status 1 with a valid summary means the images differ; the
// outputs are still written and the status is passed through.
func main() {
	if len(os.Args) < 2 {
		os.Exit(1)
	}

	var args []string
	if len(os.Args) > 2 {
		args = os.Args[2:]
	}

	cmd := exec.Command(os.Args[1], args...)
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr

	exitCode := 0
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		exitCode = exitErr.ExitCode()
	}

	var result map[string]interface{}
	if err := json.Unmarshal(output, &result); err != nil {
		// No summary means the comparison itself failed.
		os.Exit(max(exitCode, 1))
	}
	result["exitCode"] = exitCode

	if githubOutput := os.Getenv("GITHUB_OUTPUT"); githubOutput != "" {
		if err := appendOutputs(githubOutput, result); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	os.Exit(exitCode)
}

func appendOutputs(path string, result map[string]interface{}) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	return writeOutputs(f, result)
}

func writeOutputs(w io.Writer, result map[string]interface{}) error {
	keys := make([]string, 0, len(result))
	for key := range result {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := fmt.Fprintf(w, "%s=%v\n", key, result[key]); err != nil {
			return err
		}
	}
	return nil
}
