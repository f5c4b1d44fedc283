package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syspanel/syspanel/pkg/api"
)

// projectFile is the YAML shape of a project definition consumed by the
// create and update commands.
type projectFile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Enabled defaults to true when omitted.
	Enabled *bool `yaml:"enabled"`
	// Members maps role IDs to the user IDs holding that role.
	Members map[string][]string `yaml:"members"`
	// Quota maps limit names to values. Unknown names are rejected.
	Quota map[string]int64 `yaml:"quota"`
}

// LoadProjectFile reads, preprocesses, and parses a project definition into
// the workflow submit payload.
func LoadProjectFile(filename string) (*api.ProjectReq, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("unable to read file: %w", err)
	}

	processed, err := PreprocessYAML(raw)
	if err != nil {
		return nil, err
	}

	var pf projectFile
	if err := yaml.Unmarshal(processed, &pf); err != nil {
		return nil, fmt.Errorf("unable to parse project definition: %w", err)
	}

	if pf.Name == "" {
		return nil, fmt.Errorf("project definition must set a name")
	}

	quota, err := quotaFromMap(pf.Quota)
	if err != nil {
		return nil, err
	}

	req := &api.ProjectReq{
		Name:        pf.Name,
		Description: pf.Description,
		Enabled:     pf.Enabled == nil || *pf.Enabled,
		Members:     pf.Members,
		Quota:       quota,
	}
	return req, nil
}

// quotaFromMap converts named quota limits into the typed quota set. Limits
// not named in the map stay null and are left untouched by the server.
func quotaFromMap(limits map[string]int64) (api.QuotaSet, error) {
	var q api.QuotaSet
	for name, value := range limits {
		switch name {
		case "metadata_items":
			q.MetadataItems.Set(value)
		case "cores":
			q.Cores.Set(value)
		case "instances":
			q.Instances.Set(value)
		case "injected_files":
			q.InjectedFiles.Set(value)
		case "injected_file_content_bytes":
			q.InjectedFileContentBytes.Set(value)
		case "volumes":
			q.Volumes.Set(value)
		case "gigabytes":
			q.Gigabytes.Set(value)
		case "ram":
			q.RAM.Set(value)
		case "floating_ips":
			q.FloatingIPs.Set(value)
		default:
			return api.QuotaSet{}, fmt.Errorf("unknown quota limit: %s", name)
		}
	}
	return q, nil
}
