package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

// FeatureState is one entry of the features command output.
type FeatureState struct {
	Name       string `json:"name"`
	Enabled    bool   `json:"enabled"`
	Overridden bool   `json:"overridden,omitempty"`
	Category   string `json:"category"`
	Stability  string `json:"stability"`
}

// FeatureList is the output of the features command.
type FeatureList struct {
	Features []FeatureState `json:"features"`

	debug string
}

func (l *FeatureList) RenderText(w io.Writer) {
	fmt.Fprint(w, l.debug)
}

// NewFeaturesCommand creates the features command.
func NewFeaturesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "features",
		Short:         "Show feature flags after configuration and environment overrides",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(rootOpts, cmd)
			if err != nil {
				return err
			}

			list := &FeatureList{debug: s.features.DebugString()}
			for flag, enabled := range s.features.GetAll() {
				md, _ := s.features.GetMetadata(flag)
				list.Features = append(list.Features, FeatureState{
					Name:       string(flag),
					Enabled:    enabled,
					Overridden: s.features.IsOverridden(flag),
					Category:   md.Category,
					Stability:  md.Stability,
				})
			}
			sort.Slice(list.Features, func(i, j int) bool {
				return list.Features[i].Name < list.Features[j].Name
			})
			return s.formatter.Success(list)
		},
	}
}
