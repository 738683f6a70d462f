package main

import (
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/bonsaibauer/stronghold-map-unlocker/internal/audio"
	"github.com/bonsaibauer/stronghold-map-unlocker/internal/config"
	"github.com/bonsaibauer/stronghold-map-unlocker/internal/console"
	"github.com/bonsaibauer/stronghold-map-unlocker/internal/lang"
	"github.com/bonsaibauer/stronghold-map-unlocker/internal/prompt"
	"github.com/bonsaibauer/stronghold-map-unlocker/internal/steam"
	"github.com/bonsaibauer/stronghold-map-unlocker/internal/unlock"
	"github.com/bonsaibauer/stronghold-map-unlocker/internal/watch"
	"github.com/bonsaibauer/stronghold-map-unlocker/internal/workshop"
)

//go:embed sounds/select.wav
var selectSound []byte

//go:embed sounds/success.wav
var successSound []byte

//go:embed sounds/error.wav
var errorSound []byte

const (
	appTitle   = "Stronghold Map Unlocker"
	appVersion = "1.1.0"
)

var (
	workshopFlag   string
	destFlag       string
	overwriteFlag  bool
	quietFlag      bool
	verboseFlag    bool
	nonInteractive bool
	langFlag       string
	versionFlag    bool
	subcommand     string
)

func main() {
	sounds := audio.NewBank(map[string][]byte{
		"select":  selectSound,
		"success": successSound,
		"error":   errorSound,
	})

	// Global panic handler to keep crashes readable for end users
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\nOops, something broke: %v\n", r)
			fmt.Fprintln(os.Stderr, "Please report this at https://github.com/bonsaibauer/stronghold-map-unlocker/issues")
			sounds.Play("error")
			os.Exit(1)
		}
	}()

	log.SetFlags(0)

	// Check for subcommands before parsing flags
	var subcommandArgs []string
	if len(os.Args) > 1 && !strings.HasPrefix(os.Args[1], "-") {
		subcommand = os.Args[1]
		subcommandArgs = os.Args[2:]
	}

	flag.StringVar(&workshopFlag, "workshop", "", "Workshop cache folder to scan for maps")
	flag.StringVar(&destFlag, "dest", "", "Destination folder for unlocked maps")
	flag.BoolVar(&overwriteFlag, "overwrite", false, "Overwrite existing unlocked copies")
	flag.BoolVar(&quietFlag, "quiet", false, "Suppress output and sounds")
	flag.BoolVar(&verboseFlag, "verbose", false, "Show detailed output")
	flag.BoolVar(&nonInteractive, "non-interactive", false, "Non-interactive mode: no prompts, select everything")
	flag.StringVar(&langFlag, "lang", "", "Language code for messages (e.g. en, de)")
	flag.BoolVar(&versionFlag, "version", false, "Show version and exit")

	if subcommand == "" {
		flag.Parse()
	} else {
		// Separate flags from positional args since flag.Parse stops at
		// the first non-flag
		var flagArgs []string
		var positionalArgs []string
		for _, arg := range subcommandArgs {
			if strings.HasPrefix(arg, "-") {
				flagArgs = append(flagArgs, arg)
			} else {
				positionalArgs = append(positionalArgs, arg)
			}
		}
		flag.CommandLine.Parse(append(flagArgs, positionalArgs...))
	}

	console.Attach()
	console.Init(quietFlag)
	console.SetTitle(appTitle)
	audio.Init(quietFlag, verboseFlag, console.Log)

	if versionFlag {
		fmt.Printf("%s v%s\n", appTitle, appVersion)
		return
	}

	cfgDir := config.Dir()
	cfg, err := config.Load(cfgDir)
	if err != nil {
		console.Log("Warning: ignoring unreadable config: %v", err)
		cfg = &config.Config{}
	}

	langCode := cfg.Language
	if langFlag != "" {
		langCode = langFlag
	}
	if langCode == "" {
		langCode = lang.DefaultCode
	}
	tr := lang.MustLoad(langCode)

	pcfg := prompt.Config{
		NonInteractive:   nonInteractive,
		Sound:            sounds,
		GetConsoleWindow: console.GetWindow,
	}

	app := &application{
		cfg:    cfg,
		cfgDir: cfgDir,
		tr:     tr,
		pcfg:   pcfg,
		sounds: sounds,
	}

	switch subcommand {
	case "scan":
		app.runScan()
	case "unlock":
		app.runUnlock(flag.Args())
	case "watch":
		app.runWatch()
	case "languages":
		for _, info := range lang.List() {
			fmt.Printf("  %s  %s\n", info.Code, info.Name)
		}
	case "":
		app.runInteractive()
	default:
		fmt.Printf("Unknown subcommand: %s\n", subcommand)
		fmt.Println("\nAvailable subcommands:")
		fmt.Println("  scan                 List maps found in the workshop cache")
		fmt.Println("  unlock [names...]    Unlock all maps, or only those named")
		fmt.Println("  watch                Unlock new maps as Steam downloads them")
		fmt.Println("  languages            List available message languages")
		fmt.Println("\nOr run without a subcommand for the interactive menu")
		os.Exit(1)
	}
}

// application bundles the session state the subcommands share. The candidate
// list lives here and is rebuilt by explicit rescans, never cached globally.
type application struct {
	cfg    *config.Config
	cfgDir string
	tr     *lang.Catalog
	pcfg   prompt.Config
	sounds *audio.Bank
}

// workshopRoot resolves the cache folder to scan: flag, then saved config,
// then the standard Steam locations, then a folder picker as last resort.
func (a *application) workshopRoot() (string, error) {
	if workshopFlag != "" {
		return workshopFlag, nil
	}
	if a.cfg.Workshop != "" {
		if _, err := os.Stat(a.cfg.Workshop); err == nil {
			return a.cfg.Workshop, nil
		}
	}

	detected, hasMaps := steam.DetectWorkshop()
	if detected != "" {
		if hasMaps {
			console.Log(a.tr.Tf("workshop_detected", map[string]string{"path": detected}))
		} else {
			console.Log(a.tr.Tf("workshop_detected_empty", map[string]string{"path": detected}))
		}
		return detected, nil
	}

	console.Log(a.tr.T("workshop_missing"))
	if nonInteractive {
		return "", errors.New("no workshop folder configured")
	}
	return prompt.SelectFolder(appTitle+": select the Steam workshop folder", "", a.pcfg)
}

// destDir resolves where unlocked copies go: flag, saved config, game default.
func (a *application) destDir() string {
	if destFlag != "" {
		return destFlag
	}
	if a.cfg.Dest != "" {
		return a.cfg.Dest
	}
	return steam.DefaultMapsDir()
}

// saveConfig persists the paths and language used in this session.
func (a *application) saveConfig(workshopRoot, destDir string) {
	a.cfg.Workshop = workshopRoot
	a.cfg.Dest = destDir
	a.cfg.Language = a.tr.Code
	if err := config.Save(a.cfgDir, a.cfg); err != nil {
		console.Log("Warning: failed to save config: %v", err)
	}
}

func (a *application) runScan() {
	root, err := a.workshopRoot()
	if err != nil {
		fatalError("%v", err, a.sounds)
	}

	candidates := workshop.Scan(root)
	for _, c := range candidates {
		if verboseFlag {
			fmt.Printf("  %s (%s)\n", c.DisplayName, c.SourcePath)
		} else {
			fmt.Printf("  %s\n", c.DisplayName)
		}
	}
	console.Log(a.tr.Tf("scan_summary", map[string]string{
		"count": strconv.Itoa(len(candidates)),
		"path":  root,
	}))
}

// runUnlock unlocks every map in the cache, or only those whose file name
// (with or without extension) matches one of the given names.
func (a *application) runUnlock(names []string) {
	root, err := a.workshopRoot()
	if err != nil {
		fatalError("%v", err, a.sounds)
	}

	candidates := workshop.Scan(root)
	if len(names) > 0 {
		candidates = filterByName(candidates, names)
	}
	if len(candidates) == 0 {
		console.Log(a.tr.T("no_maps"))
		return
	}

	dest := a.destDir()
	results := unlock.Run(candidates, unlock.Options{DestDir: dest, Overwrite: overwriteFlag}, nil)
	a.report(results)
	a.saveConfig(root, dest)
}

func (a *application) runInteractive() {
	root, err := a.workshopRoot()
	if err != nil {
		fatalError("%v", err, a.sounds)
	}

	candidates := workshop.Scan(root)
	console.Log(a.tr.Tf("scan_summary", map[string]string{
		"count": strconv.Itoa(len(candidates)),
		"path":  root,
	}))
	if len(candidates) == 0 {
		console.Log(a.tr.T("no_maps"))
		prompt.WaitForKey(a.tr.T("press_enter"), a.pcfg)
		return
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.DisplayName
	}

	indices, err := prompt.SelectItems(a.tr.T("list_header"), a.tr.T("select_prompt"), names, a.pcfg)
	if err != nil {
		fatalError("%v", err, a.sounds)
	}
	if len(indices) == 0 {
		console.Log(a.tr.T("cancelled"))
		return
	}

	selected := make([]workshop.Candidate, 0, len(indices))
	for _, i := range indices {
		selected = append(selected, candidates[i])
	}

	dest := a.destDir()
	ok := prompt.Confirm(a.tr.Tf("confirm_unlock", map[string]string{
		"count": strconv.Itoa(len(selected)),
		"dest":  dest,
	}), a.pcfg)
	if !ok {
		console.Log(a.tr.T("cancelled"))
		return
	}

	results := unlock.Run(selected, unlock.Options{DestDir: dest, Overwrite: overwriteFlag}, nil)
	a.report(results)
	a.saveConfig(root, dest)
	prompt.WaitForKey(a.tr.T("press_enter"), a.pcfg)
}

// runWatch unlocks new maps as they appear in the cache until interrupted.
func (a *application) runWatch() {
	root, err := a.workshopRoot()
	if err != nil {
		fatalError("%v", err, a.sounds)
	}
	dest := a.destDir()

	w, err := watch.New(root, watch.DefaultInterval, func(batch []workshop.Candidate) {
		for _, c := range batch {
			console.Log(a.tr.Tf("watch_new", map[string]string{"name": c.DisplayName}))
		}
		results := unlock.Run(batch, unlock.Options{DestDir: dest, Overwrite: overwriteFlag}, nil)
		a.report(results)
	})
	if err != nil {
		fatalError("%v", err, a.sounds)
	}
	if err := w.Start(); err != nil {
		fatalError("%v", err, a.sounds)
	}
	defer w.Stop()

	console.Log(a.tr.Tf("watch_started", map[string]string{"path": root}))
	a.saveConfig(root, dest)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
}

// report prints one line per result plus a final summary and plays the
// matching sound cue.
func (a *application) report(results []unlock.Result) {
	for _, r := range results {
		args := map[string]string{
			"name": r.Candidate.DisplayName,
			"dest": r.DestPath,
		}
		switch {
		case r.Err != nil:
			args["error"] = r.Err.Error()
			fmt.Println(a.tr.Tf("result_err", args))
		case r.Warning != "":
			args["warning"] = r.Warning
			console.Log(a.tr.Tf("result_warn", args))
		default:
			console.Log(a.tr.Tf("result_ok", args))
		}
	}

	ok, total := unlock.Summarize(results)
	console.Log(a.tr.Tf("summary", map[string]string{
		"ok":    strconv.Itoa(ok),
		"total": strconv.Itoa(total),
	}))
	if ok == total {
		a.sounds.PlayAsync("success")
	} else {
		a.sounds.PlayAsync("error")
	}
}

// filterByName keeps candidates whose display name matches one of names,
// compared case-insensitively with or without the extension.
func filterByName(candidates []workshop.Candidate, names []string) []workshop.Candidate {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[strings.TrimSuffix(strings.ToLower(n), ".map")] = struct{}{}
	}

	var kept []workshop.Candidate
	for _, c := range candidates {
		key := strings.TrimSuffix(strings.ToLower(c.DisplayName), ".map")
		if _, ok := want[key]; ok {
			kept = append(kept, c)
		}
	}
	return kept
}

func fatalError(format string, err error, sounds *audio.Bank) {
	fmt.Printf("Error: "+format+"\n", err)
	sounds.Play("error")
	os.Exit(1)
}
