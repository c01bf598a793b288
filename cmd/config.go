package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/bobina/pkg/labels"
	"github.com/kamal-hamza/bobina/pkg/ui"
)

var (
	configShowPath bool
	configShow     bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Edit the bobina configuration file",
	Long: `Open the configuration file in your editor.

Use --path to print where it lives or --show to print the effective
settings, defaults included.`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configShowPath, "path", false, "Print the config file location")
	configCmd.Flags().BoolVar(&configShow, "show", false, "Print the effective configuration")
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := appDirs.ConfigPath

	if configShowPath {
		fmt.Println(path)
		return nil
	}

	if configShow {
		data, err := yaml.Marshal(appConfig)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	}

	// Ensure it exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println(ui.FormatInfo(labels.ConfigMissingHint))
		return fmt.Errorf("config file not found at %s", path)
	}

	fmt.Println(ui.FormatInfo(labels.OpeningConfig(path)))

	c := exec.Command(GetPreferredEditor(), path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
