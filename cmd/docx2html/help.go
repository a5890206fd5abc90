package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docx2html [convert] <input> [flags]")
	fmt.Fprintln(w, "       docx2html <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert .docx files to HTML (default)")
	fmt.Fprintln(w, "  config     Print the effective configuration as YAML")
	fmt.Fprintln(w, "  doctor     Check the PDF toolchain and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'docx2html help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docx2html [convert] <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Word documents to semantic HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    .docx file or directory of .docx files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output .html file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --debug-dir <dir>     Snapshot and diff after every pass")
	fmt.Fprintf(w, "                            (default: %s when it exists)\n", defaultDebugDir)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>           Page title (\"\" = first section heading)")
	fmt.Fprintln(w, "      --lang <s>            html lang attribute (default: en)")
	fmt.Fprintln(w, "      --notice <name>       Notice asset shown above the contents")
	fmt.Fprintln(w, "      --toc-title <s>       Table of contents heading")
	fmt.Fprintln(w, "      --toc-depth <n>       Max heading depth listed (1-6)")
	fmt.Fprintln(w, "      --number-sections     Number headings that carry no number")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name|path>   Stylesheet written next to the HTML")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles/ and notices/ directory")
	fmt.Fprintln(w, "      --no-style            Link no stylesheet")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --pdf                 Also print a PDF with headless Chrome")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Log every pass with timings")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  DOCX2HTML_CONFIG, DOCX2HTML_STYLE, DOCX2HTML_TIMEOUT, DOCX2HTML_OUTPUT_DIR,")
	fmt.Fprintln(w, "  DOCX2HTML_DEBUG_DIR, DOCX2HTML_ASSET_PATH, DOCX2HTML_LANG,")
	fmt.Fprintln(w, "  DOCX2HTML_PAGE_SIZE, DOCX2HTML_WORKERS")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docx2html config [-c <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration a conversion would use, after environment")
	fmt.Fprintln(w, "variables are applied.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docx2html doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome for --pdf, the config search paths, and the temp directory.")
}

// runHelp prints help for a specific command.
// Returns ExitUsage for an unknown topic.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: docx2html version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: docx2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown help topic: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
