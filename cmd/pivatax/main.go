package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"pivatax/internal/calculation"
	"pivatax/internal/config"
	"pivatax/internal/domain"
	"pivatax/internal/output"
	"pivatax/internal/server"
	"pivatax/internal/store"
	"pivatax/internal/tui"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pivatax",
	Short: "Partita IVA tax and contribution calculator",
	Long:  "Computes the annual tax and social security liability of an Italian self-employed taxpayer, under the simplified (forfettario) or the standard (ordinario) regime.",
}

// loadCatalog returns the reference catalog: the --reference file when given,
// otherwise the compiled-in defaults.
func loadCatalog(cmd *cobra.Command) (*config.Catalog, error) {
	path, _ := cmd.Flags().GetString("reference")
	if path == "" {
		path = os.Getenv("PIVATAX_REFERENCE")
	}
	if path == "" {
		return config.DefaultCatalog(), nil
	}
	return config.LoadCatalog(path)
}

// profileEngine builds an engine whose collaborators are all backed by the
// in-memory profile, so a calculation needs no database.
func profileEngine(cmd *cobra.Command, profilePath string) (*calculation.CalculationEngine, *config.Profile, error) {
	profile, err := config.LoadProfile(profilePath)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := loadCatalog(cmd)
	if err != nil {
		return nil, nil, err
	}
	engine := calculation.NewCalculationEngine(profile, profile, catalog, profile)
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		engine.SetLogger(simpleCLILogger{})
		engine.Debug = true
	}
	return engine, profile, nil
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [profile-file]",
	Short: "Calculate the year's tax summary from a profile file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, profile, err := profileEngine(cmd, args[0])
		if err != nil {
			log.Fatal(err)
		}
		result, err := engine.Calculate(context.Background(), profile.UserID, profile.Year)
		if err != nil {
			log.Fatal(err)
		}

		formatName, _ := cmd.Flags().GetString("format")
		f := output.GetFormatterByName(formatName)
		if f == nil {
			log.Fatalf("unsupported format: %s", formatName)
		}
		data, err := f.Format(result)
		if err != nil {
			log.Fatal(err)
		}
		if outFile, _ := cmd.Flags().GetString("output"); outFile != "" {
			if err := os.WriteFile(outFile, data, 0o644); err != nil {
				log.Fatal(err)
			}
			fmt.Printf("Wrote %s summary to %s\n", f.Name(), outFile)
			return
		}
		os.Stdout.Write(data)
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [profile-file]",
	Short: "Compare the year under both regimes",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, profile, err := profileEngine(cmd, args[0])
		if err != nil {
			log.Fatal(err)
		}
		cmp, err := engine.CompareRegimes(context.Background(), profile.UserID, profile.Year)
		if err != nil {
			log.Fatal(err)
		}
		os.Stdout.Write(output.FormatComparison(cmp))
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [profile-file]",
	Short: "Validate a profile file against the reference catalog",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, profile, err := profileEngine(cmd, args[0])
		if err != nil {
			log.Fatal(err)
		}
		if err := engine.ValidatePensionConfig(profile.Pension); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Profile %s is valid\n", args[0])
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded: %v", err)
		}
		cfg := config.LoadServerConfig()

		var catalog *config.Catalog
		var err error
		if cfg.ReferencePath != "" {
			catalog, err = config.LoadCatalog(cfg.ReferencePath)
			if err != nil {
				log.Fatal(err)
			}
		} else {
			catalog = config.DefaultCatalog()
		}

		st, err := store.New(cfg.DBPath)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer st.Close()

		engine := calculation.NewCalculationEngine(st, st, catalog, st)
		if cfg.Debug {
			engine.SetLogger(simpleCLILogger{})
			engine.Debug = true
		}

		srv := server.New(engine, st, st, st, catalog)
		log.Printf("pivatax API listening on %s (db: %s)", cfg.ListenAddr, cfg.DBPath)
		if err := http.ListenAndServe(cfg.ListenAddr, srv.Routes()); err != nil {
			log.Fatal(err)
		}
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive what-if calculator",
	Run: func(cmd *cobra.Command, args []string) {
		catalog, err := loadCatalog(cmd)
		if err != nil {
			log.Fatal(err)
		}
		year, _ := cmd.Flags().GetInt("year")
		tier, _ := cmd.Flags().GetString("inps-rate-type")

		pension := domain.PensionSchemeConfig{
			PensionSystem: domain.SystemPublic,
			INPSRateType:  domain.INPSRateType(tier),
		}
		p := tea.NewProgram(tui.NewModel(year, pension, catalog), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			log.Fatal(err)
		}
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "pivatax %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

func main() {
	for _, c := range []*cobra.Command{calculateCmd, compareCmd, validateCmd, tuiCmd} {
		c.Flags().String("reference", "", "reference catalog YAML (default: built-in)")
		c.Flags().Bool("debug", false, "log intermediate figures")
	}
	calculateCmd.Flags().String("format", "console", "output format: console, json, csv, pdf")
	calculateCmd.Flags().String("output", "", "write the formatted summary to a file")
	tuiCmd.Flags().Int("year", 2025, "fiscal year")
	tuiCmd.Flags().String("inps-rate-type", string(domain.INPSRateProfessional), "Gestione Separata tier for the contribution panel")

	rootCmd.AddCommand(calculateCmd, compareCmd, validateCmd, serveCmd, tuiCmd, versionCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
