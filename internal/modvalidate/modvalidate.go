// Package modvalidate inspects a mod directory's structure (C11):
// required/optional folders, custom-mod meta.lsx presence, engine-folder
// expected children, and meta.lsx metadata extraction.
package modvalidate

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cyberdeco/bg3kit/internal/dialect/textual"
	"github.com/cyberdeco/bg3kit/internal/treedoc"
	"github.com/cyberdeco/bg3kit/internal/treedoc/idgen"
)

// engineFolders are Mods/ subdirectories that belong to the base game,
// not a custom mod, and so are never required to carry a meta.lsx.
var engineFolders = map[string]bool{
	"Gustav": true, "GustavDev": true, "Shared": true,
	"Engine": true, "Game": true, "Core": true,
}

// expectedChildren maps an engine folder to the subdirectories a
// complete install is expected to have; missing ones are warnings only.
var expectedChildren = map[string][]string{
	"Gustav":    {"Assets", "Content", "Scripts"},
	"GustavDev": {"Assets", "Content"},
	"Shared":    {"Assets", "Content"},
	"Engine":    {"Content"},
	"Game":      {"Content"},
	"Core":      {"Content"},
}

// metadataAttributes are the meta.lsx attribute ids recognized into
// Metadata, mapped to the lowercase key used in the result.
var metadataAttributes = map[string]string{
	"Name": "name", "UUID": "uuid", "Version": "version",
	"Author": "author", "Description": "description", "ModuleType": "module_type",
}

// optionalDirs generate informational structure entries and a file count
// when present, but are never required.
var optionalDirs = []string{"Public", "Localization", "Generated"}

// canonicalNames is used for the case-sensitivity audit: a directory
// entry whose name matches one of these case-insensitively but not
// exactly is flagged.
var canonicalNames = []string{"Mods", "Public", "Localization", "Generated"}

// Result is the declarative outcome of validating a mod directory (spec
// §4.11). No exceptions beyond I/O.
type Result struct {
	Valid     bool
	Structure []string
	Warnings  []string
	Errors    []string
	Metadata  map[string]map[string]string // keyed by custom mod folder name
}

// Validate inspects dir and reports its structure, see package docs.
func Validate(dir string) Result {
	result := Result{Valid: true, Metadata: make(map[string]map[string]string)}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		result.Valid = false
		result.Errors = append(result.Errors, "directory does not exist: "+dir)
		return result
	}

	modsPath := filepath.Join(dir, "Mods")
	modsInfo, err := os.Stat(modsPath)
	if err != nil || !modsInfo.IsDir() {
		result.Valid = false
		result.Errors = append(result.Errors, "missing required Mods/ directory")
		return result
	}
	result.Structure = append(result.Structure, "Found Mods/")

	analyzeModsDirectory(modsPath, &result)
	checkOptionalDirs(dir, &result)
	auditCaseSensitivity(dir, &result)

	return result
}

func analyzeModsDirectory(modsPath string, result *Result) {
	entries, err := os.ReadDir(modsPath)
	if err != nil {
		result.Errors = append(result.Errors, "error reading Mods/: "+err.Error())
		result.Valid = false
		return
	}

	var subdirs []string
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, e.Name())
		}
	}
	sort.Strings(subdirs)

	if len(subdirs) == 0 {
		result.Warnings = append(result.Warnings, "no mod subfolders found in Mods/")
		return
	}

	metaFound := false
	for _, name := range subdirs {
		subdirPath := filepath.Join(modsPath, name)

		if engineFolders[name] {
			result.Structure = append(result.Structure, "Game content folder: Mods/"+name+"/")
			checkExpectedChildren(subdirPath, name, result)
			continue
		}

		metaPath := filepath.Join(subdirPath, "meta.lsx")
		if _, err := os.Stat(metaPath); err == nil {
			result.Structure = append(result.Structure, "meta.lsx found in Mods/"+name+"/")
			metaFound = true
			result.Metadata[name] = parseMetaLSX(metaPath)
			continue
		}
		result.Warnings = append(result.Warnings, "meta.lsx missing in Mods/"+name+"/")
	}

	if !metaFound {
		result.Warnings = append(result.Warnings, "no meta.lsx found - this mod may not work properly")
	}
}

func checkExpectedChildren(folderPath, folderName string, result *Result) {
	for _, child := range expectedChildren[folderName] {
		childPath := filepath.Join(folderPath, child)
		if info, err := os.Stat(childPath); err == nil && info.IsDir() {
			result.Structure = append(result.Structure, "Found Mods/"+folderName+"/"+child+"/")
		} else {
			result.Warnings = append(result.Warnings, "missing Mods/"+folderName+"/"+child+"/")
		}
	}
}

func parseMetaLSX(path string) map[string]string {
	content, err := os.ReadFile(path)
	if err != nil {
		return map[string]string{"error": "failed to read meta.lsx: " + err.Error()}
	}

	doc, err := textual.ParseBytes(content)
	if err != nil {
		return map[string]string{"error": "failed to parse meta.lsx: " + err.Error()}
	}

	metadata := make(map[string]string)
	walkAttributes(doc, func(id, value string) {
		if key, ok := metadataAttributes[id]; ok {
			metadata[key] = value
		}
	})

	if uid, ok := metadata["uuid"]; ok {
		if !idgen.ValidUUID(uid) {
			metadata["uuid_warning"] = "UUID attribute is not a well-formed UUID (" + uid +
				"); suggested replacement: " + idgen.NewNodeUUID()
		}
	} else {
		metadata["uuid_warning"] = "UUID attribute missing; suggested value: " + idgen.NewNodeUUID()
	}

	return metadata
}

// walkAttributes visits every attribute in every node of doc, depth
// first, regardless of which region or nesting level it's found at --
// meta.lsx's attributes may be nested inside a "ModuleInfo" node rather
// than flat at the region root.
func walkAttributes(doc treedoc.Document, visit func(id, value string)) {
	for _, region := range doc.Regions {
		for _, node := range region.Nodes {
			walkNodeAttributes(node, visit)
		}
	}
}

func walkNodeAttributes(node treedoc.Node, visit func(id, value string)) {
	for _, attr := range node.Attributes {
		visit(attr.ID, attr.Value)
	}
	for _, child := range node.Children {
		walkNodeAttributes(child, visit)
	}
}

func checkOptionalDirs(modDir string, result *Result) {
	for _, name := range optionalDirs {
		dirPath := filepath.Join(modDir, name)
		info, err := os.Stat(dirPath)
		if err != nil || !info.IsDir() {
			result.Warnings = append(result.Warnings, "optional "+name+"/ not found")
			continue
		}
		result.Structure = append(result.Structure, "Found "+name+"/")

		count := countFiles(dirPath)
		if count > 0 {
			result.Structure = append(result.Structure, "  "+strconv.Itoa(count)+" files in "+name+"/")
		} else {
			result.Warnings = append(result.Warnings, name+"/ is empty")
		}
	}
}

func countFiles(dir string) int {
	count := 0
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			count++
		}
		return nil
	})
	return count
}

// auditCaseSensitivity flags entries under modDir whose name matches a
// canonical name case-insensitively but not exactly -- a real bug class
// on case-insensitive filesystems the directory layout otherwise hides
// (supplemented feature, grounded on the case-sensitivity audit spec
// §4.11 calls for).
func auditCaseSensitivity(modDir string, result *Result) {
	entries, err := os.ReadDir(modDir)
	if err != nil {
		return
	}
	for _, e := range entries {
		for _, canon := range canonicalNames {
			if e.Name() != canon && strings.EqualFold(e.Name(), canon) {
				result.Warnings = append(result.Warnings, "found \""+e.Name()+"\" -- did you mean \""+canon+"\"? (case mismatch)")
			}
		}
	}
	duplicateByCasefold(modDir, result)
}

// duplicateByCasefold flags files in Public/ whose lowercased names
// collide, since a case-insensitive filesystem would silently merge them
// while a case-sensitive one (the dev's) keeps both.
func duplicateByCasefold(modDir string, result *Result) {
	publicDir := filepath.Join(modDir, "Public")
	if info, err := os.Stat(publicDir); err != nil || !info.IsDir() {
		return
	}

	seen := make(map[string]string)
	filepath.Walk(publicDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(modDir, path)
		if relErr != nil {
			return nil
		}
		key := strings.ToLower(rel)
		if prior, ok := seen[key]; ok && prior != rel {
			result.Warnings = append(result.Warnings, "case-insensitive name collision: \""+prior+"\" and \""+rel+"\"")
			return nil
		}
		seen[key] = rel
		return nil
	})
}
