package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/uptimestars/starsctl/internal/config"
	"github.com/uptimestars/starsctl/internal/errors"
	"github.com/uptimestars/starsctl/internal/ui"
	"gopkg.in/yaml.v3"
)

var (
	configInitGlobal bool
	configInitForce  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create, show and edit the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	Long: `Write a config file with every setting at its default value.

The file goes to ./.starsctl.yaml, or with --global to
~/.config/starsctl/config.yaml.

Examples:
  starsctl config init
  starsctl config init --global
  starsctl config set api.base_url https://stars.example.com/api/v1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInit(cmd, configInitGlobal, configInitForce)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	Long: `Print the config after defaults, the config file, environment
variables and global flags are applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShow(cmd)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one value in the config file",
	Long: `Set a dotted key in the config file, keeping its comments and layout.
The change is rolled back if the result does not validate.

Examples:
  starsctl config set poll.interval 10s
  starsctl config set output.color never`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSet(cmd, args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configSetCmd)

	configInitCmd.Flags().BoolVar(&configInitGlobal, "global", false, "write ~/.config/starsctl/config.yaml")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
}

// configInit writes the default config.
func configInit(cmd *cobra.Command, global, force bool) error {
	path := Config()
	switch {
	case path != "":
	case global:
		if path = config.GlobalPath(); path == "" {
			return errors.New(errors.ErrConfig,
				"Can't find your home directory",
				"Pass an explicit path with --config.")
		}
	default:
		path = config.ConfigFileName
	}

	if err := config.WriteDefault(path, force); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write "+path,
			"Use --force to overwrite an existing file.")
	}

	out := cmd.OutOrStdout()
	if MachineMode() {
		return WriteJSONSuccess(out, map[string]string{"path": path})
	}
	success(out, "Wrote %s", path)
	fmt.Fprintln(out, "\nPoint it at your backend with: starsctl config set api.base_url <url>")
	return nil
}

// configShow prints the effective config.
func configShow(cmd *cobra.Command) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "Failed to render config")
	}

	out := cmd.OutOrStdout()
	if MachineMode() {
		var generic map[string]interface{}
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return errors.Wrap(err, "Failed to render config")
		}
		return WriteJSONSuccess(out, map[string]interface{}{"path": path, "config": generic})
	}

	fmt.Fprint(out, ui.RenderHeader(ui.HeaderInfo{Version: formatVersion(version), BaseURL: cfg.API.BaseURL}))
	fmt.Fprintln(out, ui.MutedStyle().Render("# source: "+displayPath(path)))
	_, err = io.WriteString(out, string(data))
	return err
}

// configSet edits one key and keeps the file valid.
func configSet(cmd *cobra.Command, key, value string) error {
	path, err := config.Find(Config())
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file found",
			"Create one first with 'starsctl config init'.")
	}

	before, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't read "+path, "Check file permissions.")
	}
	if err := config.SetValue(path, key, value); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't set %s", key),
			"Keys are dotted paths like api.base_url, see 'starsctl config show'.")
	}

	cfg, err := config.Load(path)
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		if restoreErr := os.WriteFile(path, before, 0644); restoreErr != nil {
			return errors.Wrap(restoreErr, "Couldn't restore "+path+" after an invalid change")
		}
		return err
	}

	out := cmd.OutOrStdout()
	if MachineMode() {
		return WriteJSONSuccess(out, map[string]string{"path": path, "key": key, "value": value})
	}
	success(out, "Set %s = %s in %s", key, value, filepath.Base(path))
	return nil
}
