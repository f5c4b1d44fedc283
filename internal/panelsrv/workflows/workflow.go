// Package workflows implements the multi-step project forms: create project
// and update project. A workflow GET returns the step layout plus prefilled
// initial values assembled from the remote services; a POST applies the
// submitted form across the identity and compute services. Partial failures
// while applying degrade to warning messages; only the primary tenant write
// is a hard error.
package workflows

import (
	"github.com/mitchellh/mapstructure"
	"github.com/syspanel/syspanel/pkg/api"
)

// Definition is the static shape of a workflow: its ordered steps and their
// fields.
type Definition struct {
	Slug  string
	Name  string
	Steps []api.WorkflowStep
}

// State is the renderable state of a workflow GET: the definition plus the
// initial values and per-step errors collected while assembling them.
type State struct {
	def        *Definition
	initial    map[string]any
	stepErrors map[string][]string
	messages   []api.Message
}

func newState(def *Definition) *State {
	return &State{
		def:     def,
		initial: make(map[string]any),
	}
}

// setInitialFrom flattens the tagged fields of the given struct into the
// initial value map. Nullable fields flatten as-is so a value the remote
// service never reported renders as null.
func (s *State) setInitialFrom(src any) error {
	flat := make(map[string]any)
	if err := mapstructure.Decode(src, &flat); err != nil {
		return err
	}
	for k, v := range flat {
		s.initial[k] = v
	}
	return nil
}

func (s *State) setInitial(key string, value any) {
	s.initial[key] = value
}

// setQuotaInitial copies every quota limit into the initial value map,
// nulls included, so the form renders exactly what the service reported.
func (s *State) setQuotaInitial(quota api.QuotaSet) {
	for _, f := range quota.Fields() {
		s.initial[f.Name] = f.Value
	}
}

// addStepError attaches a validation-style error to a single step. The
// workflow still renders; only the named step is flagged.
func (s *State) addStepError(slug string, text string) {
	if s.stepErrors == nil {
		s.stepErrors = make(map[string][]string)
	}
	s.stepErrors[slug] = append(s.stepErrors[slug], text)
}

func (s *State) response() *api.WorkflowStateRsp {
	return &api.WorkflowStateRsp{
		Slug:       s.def.Slug,
		Name:       s.def.Name,
		Steps:      s.def.Steps,
		Initial:    s.initial,
		StepErrors: s.stepErrors,
		Messages:   s.messages,
	}
}

const (
	stepProjectInfo = "create_info"
	stepMembers     = "update_members"
	stepQuota       = "update_quota"
)

func projectInfoStep() api.WorkflowStep {
	return api.WorkflowStep{
		Slug: stepProjectInfo,
		Name: "Project Info",
		Fields: []api.WorkflowField{
			{Name: "name", Label: "Name", Type: "text", Required: true},
			{Name: "description", Label: "Description", Type: "text"},
			{Name: "enabled", Label: "Enabled", Type: "boolean"},
		},
	}
}

func membersStep() api.WorkflowStep {
	return api.WorkflowStep{
		Slug: stepMembers,
		Name: "Project Members",
		Fields: []api.WorkflowField{
			{Name: "members", Label: "Members By Role", Type: "membership"},
		},
	}
}

func quotaStep() api.WorkflowStep {
	quotaFields := api.QuotaSet{}.Fields()
	fields := make([]api.WorkflowField, 0, len(quotaFields))
	for _, f := range quotaFields {
		fields = append(fields, api.WorkflowField{
			Name:  f.Name,
			Label: f.Name,
			Type:  "integer",
		})
	}
	return api.WorkflowStep{
		Slug:   stepQuota,
		Name:   "Quota",
		Fields: fields,
	}
}

func createProjectDefinition() *Definition {
	return &Definition{
		Slug:  "create_project",
		Name:  "Create Project",
		Steps: []api.WorkflowStep{projectInfoStep(), membersStep(), quotaStep()},
	}
}

func updateProjectDefinition() *Definition {
	return &Definition{
		Slug:  "update_project",
		Name:  "Edit Project",
		Steps: []api.WorkflowStep{projectInfoStep(), membersStep(), quotaStep()},
	}
}
