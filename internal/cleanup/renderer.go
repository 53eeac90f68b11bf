package cleanup

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localMergedSectionHeadingConstant       = "Merged local branches:"
	localGoneSectionHeadingConstant         = "Gone local branches:"
	remoteMergedSectionHeadingConstant      = "Merged remote branches:"
	emptyPlanMessageConstant                = "No branches to remove."
	sectionHeadingTemplateConstant          = "%s\n"
	branchLineTemplateConstant              = "  %s\n"
	remoteReferenceTemplateConstant         = "%s/%s"
	jsonIndentPrefixConstant                = ""
	jsonIndentConstant                      = "  "
	trailingNewlineConstant                 = "\n"
	unsupportedOutputFormatTemplateConstant = "unsupported output format: %s"
)

// OutputFormat selects a rendered representation of the removal plan.
type OutputFormat string

// Supported output formats.
const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// UnsupportedOutputFormatError reports an unrecognized rendering format.
type UnsupportedOutputFormatError struct {
	Format OutputFormat
}

// Error describes the unsupported format.
func (formatError UnsupportedOutputFormatError) Error() string {
	return fmt.Sprintf(unsupportedOutputFormatTemplateConstant, string(formatError.Format))
}

// ParseOutputFormat normalizes a format name into a supported OutputFormat.
// An empty name selects the text format.
func ParseOutputFormat(formatName string) (OutputFormat, error) {
	normalizedName := strings.ToLower(strings.TrimSpace(formatName))
	if len(normalizedName) == 0 {
		return OutputFormatText, nil
	}

	switch OutputFormat(normalizedName) {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return OutputFormat(normalizedName), nil
	default:
		return "", UnsupportedOutputFormatError{Format: OutputFormat(formatName)}
	}
}

// PlanRenderer renders removal plans into their output representations.
type PlanRenderer struct{}

// NewPlanRenderer constructs a PlanRenderer.
func NewPlanRenderer() *PlanRenderer {
	return &PlanRenderer{}
}

// Render produces the plan representation for the requested output format.
func (renderer *PlanRenderer) Render(plan RemovalPlan, format OutputFormat) (string, error) {
	switch format {
	case OutputFormatText:
		return renderer.renderText(plan), nil
	case OutputFormatJSON:
		return renderer.renderJSON(plan)
	case OutputFormatYAML:
		return renderer.renderYAML(plan)
	default:
		return "", UnsupportedOutputFormatError{Format: format}
	}
}

func (renderer *PlanRenderer) renderText(plan RemovalPlan) string {
	if plan.IsEmpty() {
		return emptyPlanMessageConstant + trailingNewlineConstant
	}

	outputBuilder := &strings.Builder{}
	renderer.writeBranchSection(outputBuilder, localMergedSectionHeadingConstant, plan.LocalMerged)
	renderer.writeBranchSection(outputBuilder, localGoneSectionHeadingConstant, plan.LocalGone)
	renderer.writeBranchSection(outputBuilder, remoteMergedSectionHeadingConstant, renderer.qualifiedRemoteReferences(plan.RemoteMerged))
	return outputBuilder.String()
}

func (renderer *PlanRenderer) writeBranchSection(outputBuilder *strings.Builder, sectionHeading string, branchNames []string) {
	if len(branchNames) == 0 {
		return
	}

	fmt.Fprintf(outputBuilder, sectionHeadingTemplateConstant, sectionHeading)
	for _, branchName := range branchNames {
		fmt.Fprintf(outputBuilder, branchLineTemplateConstant, branchName)
	}
}

func (renderer *PlanRenderer) qualifiedRemoteReferences(referencesByRemote map[string][]string) []string {
	remoteNames := make([]string, 0, len(referencesByRemote))
	for remoteName := range referencesByRemote {
		remoteNames = append(remoteNames, remoteName)
	}
	sort.Strings(remoteNames)

	qualifiedReferences := make([]string, 0, len(referencesByRemote))
	for _, remoteName := range remoteNames {
		for _, referenceName := range referencesByRemote[remoteName] {
			qualifiedReferences = append(qualifiedReferences, fmt.Sprintf(remoteReferenceTemplateConstant, remoteName, referenceName))
		}
	}
	return qualifiedReferences
}

func (renderer *PlanRenderer) renderJSON(plan RemovalPlan) (string, error) {
	encodedPlan, marshalError := json.MarshalIndent(plan, jsonIndentPrefixConstant, jsonIndentConstant)
	if marshalError != nil {
		return "", marshalError
	}
	return string(encodedPlan) + trailingNewlineConstant, nil
}

func (renderer *PlanRenderer) renderYAML(plan RemovalPlan) (string, error) {
	encodedPlan, marshalError := yaml.Marshal(plan)
	if marshalError != nil {
		return "", marshalError
	}
	return string(encodedPlan), nil
}
