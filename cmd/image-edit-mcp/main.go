package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/image-edit-mcp/internal/config"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
	"github.com/ironsheep/image-edit-mcp/internal/script"
	"github.com/ironsheep/image-edit-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-edit-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Configuration: %v", err)
	}
	if cfg.Debug() {
		log.Printf("Image Edit MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if len(os.Args) > 1 && os.Args[1] == "run" {
		os.Exit(runScripts(cfg, os.Args[2:]))
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// runScripts executes each script against one shared store and returns the
// process exit code.
func runScripts(cfg *config.Config, paths []string) int {
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: image-edit-mcp run <script> [script...]")
		return 2
	}

	runner := script.NewRunner(imaging.NewStore(), script.Options{
		Output: os.Stdout,
		Save:   cfg.SaveOptions(),
		Debug:  cfg.Debug(),
	})

	code := 0
	for _, path := range paths {
		res, err := runner.RunFile(path)
		if err != nil {
			log.Printf("%s: %v", path, err)
			return 1
		}
		if len(res.Failures) > 0 {
			code = 1
		}
		if cfg.Debug() {
			log.Printf("%s: %d commands, %d failed", path, res.Executed, len(res.Failures))
		}
	}
	return code
}

func printHelp() {
	fmt.Println("image-edit-mcp - MCP server and script runner for raster image editing")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  image-edit-mcp [options]          Serve MCP over stdin/stdout")
	fmt.Println("  image-edit-mcp run <script>...    Execute edit scripts and exit")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Printf("  %s=debug       Enable debug logging\n", config.EnvLogLevel)
	fmt.Printf("  %s=256      Default preview edge in pixels\n", config.EnvPreviewSize)
	fmt.Printf("  %s=95       JPEG quality used by save\n", config.EnvJPEGQuality)
	fmt.Printf("  %s=.env         Alternative env file\n", config.EnvFile)
	fmt.Println()
	fmt.Println("Script commands:")
	fmt.Print(script.Usage())
}
