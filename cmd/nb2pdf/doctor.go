package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Jupyter  toolInfo   `json:"jupyter"`
	Chrome   toolInfo   `json:"chrome"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// toolInfo holds detection results for one external tool.
type toolInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, deps *Dependencies) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor()

	if jsonOutput {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(deps.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor() *doctorResult {
	result := &doctorResult{Status: "ready"}

	checkJupyter(result)
	checkChrome(result)
	checkSystem(result)

	finalizeStatus(result)
	return result
}

// finalizeStatus derives the overall status from accumulated findings.
func finalizeStatus(result *doctorResult) {
	switch {
	case len(result.Errors) > 0:
		result.Status = "errors"
	case len(result.Warnings) > 0:
		result.Status = "warnings"
	}
}

// checkJupyter detects the external notebook converter.
func checkJupyter(result *doctorResult) {
	path, err := exec.LookPath("jupyter")
	if err != nil {
		result.Errors = append(result.Errors,
			"jupyter not found on PATH. Install it with: pip install nbconvert")
		return
	}

	result.Jupyter.Found = true
	result.Jupyter.Path = path

	out, err := exec.Command(path, "--version").Output()
	if err == nil {
		result.Jupyter.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get jupyter version: %v", err))
	}
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult) {
	chromePath := os.Getenv("ROD_BROWSER_BIN")

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found; rod will download a managed Chromium on first run")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- path from launcher detection
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}
}

// checkSystem verifies the temp directory is writable.
func checkSystem(result *doctorResult) {
	f, err := os.CreateTemp("", "nb2pdf-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %v", err))
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	result.System.TempWritable = true
}

// printDoctorResult renders the human-readable report.
func printDoctorResult(w io.Writer, result *doctorResult) {
	fmt.Fprintf(w, "Status: %s\n\n", result.Status)

	printTool(w, "jupyter", result.Jupyter)
	printTool(w, "Chrome", result.Chrome)

	if result.System.TempWritable {
		fmt.Fprintln(w, "Temp directory: writable")
	} else {
		fmt.Fprintln(w, "Temp directory: NOT writable")
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "Error: %s\n", e)
	}
}

func printTool(w io.Writer, name string, info toolInfo) {
	if !info.Found {
		fmt.Fprintf(w, "%s: not found\n", name)
		return
	}
	fmt.Fprintf(w, "%s: %s", name, info.Path)
	if info.Version != "" {
		fmt.Fprintf(w, " (%s)", info.Version)
	}
	fmt.Fprintln(w)
}
