// gtest checks the scanner against golden snapshots of the programs under
// tests/. Run with --generate-golden <file> to (re)record one snapshot.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/xplshn/gpioc/pkg/config"
	"github.com/xplshn/gpioc/pkg/snapshot"
)

type FileTestResult struct {
	File    string             `json:"file"`
	Status  string             `json:"status"` // PASS, FAIL, SKIP, ERROR
	Message string             `json:"message,omitempty"`
	Diff    string             `json:"diff,omitempty"`
	Golden  *snapshot.Snapshot `json:"golden,omitempty"`
	Actual  *snapshot.Snapshot `json:"actual,omitempty"`
}

var (
	generateGolden = flag.String("generate-golden", "", "Generate a golden .json file for a given source file.")
	testFiles      = flag.String("test-files", "tests/*.gpio", "Glob pattern(s) for files to test (space-separated).")
	skipFiles      = flag.String("skip-files", "", "Files to skip (space-separated).")
	outputJSON     = flag.String("output", ".test_results.json", "Output file for the JSON test report.")
	jsonDir        = flag.String("dir", "", "Directory to store/read golden JSON files (defaults to source file dir).")
	jobs           = flag.Int("j", 4, "Number of parallel test jobs.")
	verbose        = flag.Bool("v", false, "Enable verbose logging.")
)

const (
	cRed    = "\x1b[91m"
	cYellow = "\x1b[93m"
	cGreen  = "\x1b[92m"
	cCyan   = "\x1b[96m"
	cNone   = "\x1b[0m"
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	if *jobs < 1 {
		*jobs = 1
	}

	if *generateGolden != "" {
		handleGenerateGolden(*generateGolden)
		return
	}

	results := runSuite()
	if hasFailures(results) {
		os.Exit(1)
	}
}

func handleGenerateGolden(sourceFile string) {
	log.Printf("Generating golden file for %s...\n", sourceFile)

	src, err := os.ReadFile(sourceFile)
	if err != nil {
		log.Fatalf("%s[ERROR]%s Could not read source file %s: %v\n", cRed, cNone, sourceFile, err)
	}

	goldenFile := snapshot.GoldenPath(sourceFile, *jsonDir)
	if err := snapshot.Save(goldenFile, snapshot.Take(sourceFile, src, config.NewConfig())); err != nil {
		log.Fatalf("%s[ERROR]%s Failed to write golden file %s: %v\n", cRed, cNone, goldenFile, err)
	}

	log.Printf("%s[SUCCESS]%s Golden file created at %s\n", cGreen, cNone, goldenFile)
}

func runSuite() []*FileTestResult {
	files, err := expandGlobPatterns(*testFiles)
	if err != nil {
		log.Fatalf("%s[ERROR]%s Invalid glob pattern(s): %v\n", cRed, cNone, err)
	}
	if len(files) == 0 {
		log.Println("No test files found matching the pattern(s).")
		return nil
	}

	skipList := make(map[string]bool)
	for _, f := range strings.Fields(*skipFiles) {
		skipList[f] = true
	}

	tasks := make(chan string, len(files))
	resultsChan := make(chan *FileTestResult, len(files))
	var wg sync.WaitGroup

	for i := 0; i < *jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range tasks {
				resultsChan <- testFile(file)
			}
		}()
	}

	// Feed the tasks channel, skipping files with identical content
	seenHashes := make(map[string]string)
	for _, file := range files {
		if skipList[file] {
			resultsChan <- &FileTestResult{File: file, Status: "SKIP", Message: "Explicitly skipped"}
			continue
		}
		fileHash, err := snapshot.HashFile(file)
		if err != nil {
			resultsChan <- &FileTestResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Failed to read file for hashing: %v", err)}
			continue
		}
		if originalFile, seen := seenHashes[fileHash]; seen {
			resultsChan <- &FileTestResult{File: file, Status: "SKIP", Message: fmt.Sprintf("Content is identical to %s", originalFile)}
			continue
		}
		seenHashes[fileHash] = file
		tasks <- file
	}
	close(tasks)

	wg.Wait()
	close(resultsChan)

	var results []*FileTestResult
	for result := range resultsChan {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })

	printSummary(results)
	writeJSONReport(results)
	return results
}

// testFile scans one file with a fresh configuration and collector and
// compares the outcome with its golden snapshot.
func testFile(file string) *FileTestResult {
	src, err := os.ReadFile(file)
	if err != nil {
		return &FileTestResult{File: file, Status: "ERROR", Message: fmt.Sprintf("Could not read source file: %v", err)}
	}

	golden, err := snapshot.LoadGolden(file, *jsonDir)
	if errors.Is(err, snapshot.ErrNoGolden) {
		return &FileTestResult{File: file, Status: "SKIP", Message: "Cannot test without a corresponding .json golden file"}
	}
	if err != nil {
		return &FileTestResult{File: file, Status: "ERROR", Message: err.Error()}
	}
	if *verbose {
		log.Printf("%s[RUN]%s %s\n", cCyan, cNone, file)
	}

	actual := snapshot.Take(file, src, config.NewConfig())
	if diff := snapshot.Diff(golden, actual); diff != "" {
		msg := "Token stream or diagnostics mismatch"
		if snapshot.Stale(golden, src) {
			msg += " (golden file was recorded for different content)"
		}
		return &FileTestResult{File: file, Status: "FAIL", Message: msg, Diff: diff, Golden: golden, Actual: actual}
	}
	return &FileTestResult{File: file, Status: "PASS", Message: "Matches golden snapshot"}
}

func expandGlobPatterns(patterns string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, pattern := range strings.Fields(patterns) {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

func printSummary(results []*FileTestResult) {
	counts := make(map[string]int)
	for _, r := range results {
		counts[r.Status]++
		switch r.Status {
		case "PASS":
			if *verbose {
				fmt.Printf("%s[PASS]%s %s\n", cGreen, cNone, r.File)
			}
		case "SKIP":
			fmt.Printf("%s[SKIP]%s %s: %s\n", cYellow, cNone, r.File, r.Message)
		default:
			fmt.Printf("%s[%s]%s %s: %s\n", cRed, r.Status, cNone, r.File, r.Message)
			if r.Diff != "" {
				fmt.Println(r.Diff)
			}
		}
	}
	fmt.Printf("\n%d passed, %d failed, %d errors, %d skipped\n", counts["PASS"], counts["FAIL"], counts["ERROR"], counts["SKIP"])
}

func writeJSONReport(results []*FileTestResult) {
	report := make(map[string]*FileTestResult, len(results))
	for _, r := range results {
		report[r.File] = r
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Printf("%s[WARN]%s Failed to marshal test report: %v\n", cYellow, cNone, err)
		return
	}
	outputFile := *outputJSON
	if *jsonDir != "" {
		outputFile = filepath.Join(*jsonDir, *outputJSON)
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		log.Printf("%s[WARN]%s Failed to write test report %s: %v\n", cYellow, cNone, outputFile, err)
	}
}

func hasFailures(results []*FileTestResult) bool {
	for _, r := range results {
		if r.Status == "FAIL" || r.Status == "ERROR" {
			return true
		}
	}
	return false
}
