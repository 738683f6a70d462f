package prompt

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// SoundPlayer defines the interface for playing sounds
type SoundPlayer interface {
	Play(name string)
	PlayAsync(name string)
}

// Config holds configuration for prompting
type Config struct {
	NonInteractive   bool
	Sound            SoundPlayer
	GetConsoleWindow func() uintptr
}

// WaitForKey waits for user to press Enter
func WaitForKey(prompt string, cfg Config) {
	if cfg.NonInteractive {
		return
	}
	fmt.Print(prompt)
	bufio.NewReader(os.Stdin).ReadBytes('\n')
}

// Confirm asks the user to confirm an action
func Confirm(prompt string, cfg Config) bool {
	if cfg.NonInteractive {
		return true
	}

	fmt.Printf("%s (y/n): ", prompt)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	confirmed := response == "y" || response == "yes" || response == "j" || response == "ja"

	if cfg.Sound != nil {
		if confirmed || response == "n" || response == "no" {
			cfg.Sound.Play("select")
		}
	}

	return confirmed
}

// SelectFolder opens a folder selection dialog
func SelectFolder(title, defaultPath string, cfg Config) (string, error) {
	if cfg.NonInteractive {
		return defaultPath, nil
	}

	fmt.Println("\nPress Enter to open the folder picker...")
	bufio.NewReader(os.Stdin).ReadBytes('\n')

	consoleHandle := uintptr(0)
	if cfg.GetConsoleWindow != nil {
		consoleHandle = cfg.GetConsoleWindow()
	}

	ole.CoInitialize(0)
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("Shell.Application")
	if err != nil {
		return "", fmt.Errorf("failed to create Shell object: %w", err)
	}
	defer unknown.Release()

	shell, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return "", fmt.Errorf("failed to get IDispatch interface: %w", err)
	}
	defer shell.Release()

	folderObj, err := oleutil.CallMethod(shell, "BrowseForFolder", int(consoleHandle), title, 0x10)
	if err != nil {
		return "", fmt.Errorf("failed to show folder dialog: %w", err)
	}

	if folderObj.Value() == nil {
		return "", fmt.Errorf("folder selection cancelled")
	}

	folderItem := folderObj.ToIDispatch()
	if folderItem == nil {
		return "", fmt.Errorf("folder selection cancelled")
	}
	defer folderItem.Release()

	selfProp, err := oleutil.GetProperty(folderItem, "Self")
	if err != nil {
		return "", fmt.Errorf("failed to get folder item: %w", err)
	}

	selfDispatch := selfProp.ToIDispatch()
	defer selfDispatch.Release()

	pathProp, err := oleutil.GetProperty(selfDispatch, "Path")
	if err != nil {
		return "", fmt.Errorf("failed to get folder path: %w", err)
	}

	selectedPath := pathProp.ToString()
	if selectedPath == "" {
		return "", fmt.Errorf("no folder selected")
	}

	return selectedPath, nil
}

// ParseSelection parses a selection expression against a list of n items.
// Accepted forms: "all", single indices ("3") and ranges ("2-5"), comma or
// space separated, 1-based. The returned indices are 0-based, sorted and
// deduplicated. An empty expression yields an empty selection.
func ParseSelection(expr string, n int) ([]int, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, nil
	}

	if strings.EqualFold(expr, "all") || expr == "*" {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	picked := make(map[int]struct{})
	for _, tok := range strings.FieldsFunc(expr, func(r rune) bool { return r == ',' || r == ' ' }) {
		lo, hi := tok, tok
		if idx := strings.Index(tok, "-"); idx > 0 {
			lo, hi = tok[:idx], tok[idx+1:]
		}

		from, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q", tok)
		}
		to, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q", tok)
		}

		if from > to || from < 1 || to > n {
			return nil, fmt.Errorf("selection %q out of range 1-%d", tok, n)
		}
		for i := from; i <= to; i++ {
			picked[i-1] = struct{}{}
		}
	}

	indices := make([]int, 0, len(picked))
	for i := range picked {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices, nil
}

// SelectItems prints a numbered list and asks the user to pick a subset.
// Returns the chosen 0-based indices; an empty answer cancels. In
// non-interactive mode everything is selected.
func SelectItems(header, promptText string, items []string, cfg Config) ([]int, error) {
	if cfg.NonInteractive {
		return ParseSelection("all", len(items))
	}

	fmt.Println(header)
	for i, item := range items {
		fmt.Printf("  %d. %s\n", i+1, item)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(promptText)
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read selection: %w", err)
		}

		indices, err := ParseSelection(line, len(items))
		if err != nil {
			fmt.Println(err)
			continue
		}
		if cfg.Sound != nil && len(indices) > 0 {
			cfg.Sound.PlayAsync("select")
		}
		return indices, nil
	}
}
