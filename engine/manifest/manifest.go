package manifest

import (
	"encoding/xml"
	"os"
	"path/filepath"

	"github.com/structscan/structscan/pkg/logger"
)

// ProjectInfo is the project identity recovered from the build manifest
type ProjectInfo struct {
	Name    string
	GroupID string // empty when the manifest carries none
}

// pomModel maps the subset of a Maven pom.xml this tool cares about
type pomModel struct {
	XMLName    xml.Name `xml:"project"`
	Name       string   `xml:"name"`
	ArtifactID string   `xml:"artifactId"`
	GroupID    string   `xml:"groupId"`
	Parent     struct {
		GroupID string `xml:"groupId"`
	} `xml:"parent"`
}

// Load reads pom.xml under the project root to recover the project name and
// group id. A missing or unreadable manifest is never fatal: the directory
// name stands in for the project name and the group id stays absent, with a
// warning logged.
func Load(projectPath string) *ProjectInfo {
	info := &ProjectInfo{Name: filepath.Base(projectPath)}

	pomPath := filepath.Join(projectPath, "pom.xml")
	data, err := os.ReadFile(pomPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("could not read manifest", "path", pomPath, "error", err)
		}
		return info
	}

	var model pomModel
	if err := xml.Unmarshal(data, &model); err != nil {
		logger.Warn("could not parse manifest", "path", pomPath, "error", err)
		return info
	}

	switch {
	case model.Name != "":
		info.Name = model.Name
	case model.ArtifactID != "":
		info.Name = model.ArtifactID
	}

	if model.GroupID != "" {
		info.GroupID = model.GroupID
	} else if model.Parent.GroupID != "" {
		info.GroupID = model.Parent.GroupID
	}

	return info
}
