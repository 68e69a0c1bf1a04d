package main

import (
	"flag"
	"fmt"
	"os"

	"marknav/internal/config"
	"marknav/internal/server"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("marknav")

func main() {
	versionFlag := flag.Bool("version", false, "Print the version of the program")
	logfileFlag := flag.String("logfile", "", "Path to log file")
	verboseFlag := flag.Int("verbose", 1, "Log verbosity (0 quiet, higher is louder)")
	configFlag := flag.String("config", "", "Path to a JSON config file")
	tcpFlag := flag.String("tcp", "", "Serve LSP over TCP on this address instead of stdio")

	runFlag := flag.String("run", "", "Run one command on -file and print the result")
	fileFlag := flag.String("file", "", "Document for -run")
	langFlag := flag.String("lang", "", "Language id for -run (default: file extension)")
	atFlag := flag.String("at", "0:0", `Selections for -run, "line:col" or "line:col-line:col" separated by ";"`)
	tagFlag := flag.String("tag", "", "New tag name for -run updateTag")
	flag.Parse()

	// Version tag
	if *versionFlag {
		fmt.Printf("marknav LSP server version %s\n", server.Version)
		return
	}

	// Logging
	var logfile *string
	if *logfileFlag != "" {
		logfile = logfileFlag
	}
	commonlog.Configure(*verboseFlag, logfile)

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *runFlag != "" {
		opts := runOptions{
			command:  *runFlag,
			file:     *fileFlag,
			language: *langFlag,
			at:       *atFlag,
			tag:      *tagFlag,
		}
		if err := run(os.Stdout, cfg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", *runFlag, err)
			os.Exit(1)
		}
		return
	}

	log.Infof("starting marknav LSP server %s", server.Version)
	s := server.NewServer(cfg, false)

	if *tcpFlag != "" {
		err = s.RunTCP(*tcpFlag)
	} else {
		err = s.RunStdio()
	}
	if err != nil {
		log.Errorf("server error: %v", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return config.Config{}, err
	}
	defer f.Close()
	return config.LoadFromJSON(f)
}
