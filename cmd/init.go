package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabsift/internal/logging"
	"github.com/KaramelBytes/tabsift/internal/study"
	"github.com/KaramelBytes/tabsift/internal/utils"
)

var (
	initDescription string
)

var initCmd = &cobra.Command{
	Use:   "init <study-name>",
	Short: "Initialize a new study that records exploration runs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if utils.SafeName(name, "") != name {
			return fmt.Errorf("invalid study name %q (use lowercase letters, digits and '-')", name)
		}
		studyDir, err := resolveStudyDir(name)
		if err != nil {
			return err
		}
		// Refuse to overwrite an existing study.
		if study.Exists(studyDir) {
			return fmt.Errorf("study already exists at %s", studyDir)
		}
		if entries, err := os.ReadDir(studyDir); err == nil && len(entries) > 0 {
			return fmt.Errorf("directory %s already exists and is not empty; refusing to initialize study", studyDir)
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("inspect study directory: %w", err)
		}
		s := study.New(name, initDescription, studyDir)
		if err := s.Save(); err != nil {
			return err
		}
		logging.Success(cmd.OutOrStdout(), "Study initialized: %s", studyDir)
		return nil
	},
}

func defaultStudiesDir() (string, error) {
	dir := ""
	if cfg != nil {
		dir = cfg.StudiesDir
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".tabsift", "studies")
	}
	dir, err := utils.ExpandHome(dir)
	if err != nil {
		return "", err
	}
	dir = filepath.Clean(dir)
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func resolveStudyDir(name string) (string, error) {
	if name == "" {
		return "", errors.New("study name is required")
	}
	root, err := defaultStudiesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "study description")
}
