package publish

import (
	"fmt"
	"strings"

	"github.com/matthewsawatzky/whitelabel/internal/favicon"
	"github.com/matthewsawatzky/whitelabel/internal/generate"
)

// iconTargets maps generated favicon names to their place in the repo.
var iconTargets = []struct {
	source string
	target string
}{
	{favicon.NameICO, "favicon.ico"},
	{favicon.NameManifest192, "favicon-192x192.png"},
	{favicon.NameManifest512, "favicon-512x512.png"},
	{favicon.NameWebManifest, "manifest.json"},
}

// WhiteLabelRequest builds the pull request adding a white label's theme
// files and, when icons is non-nil, its favicons.
func WhiteLabelRequest(repoSlug, brand string, arts generate.Artifacts, icons *favicon.Set, username string) PullRequest {
	id := generate.Ident(brand)

	var files []File
	for _, f := range arts.Files(brand) {
		files = append(files, File{Path: f.Path, Content: f.Content})
	}
	if icons != nil {
		for _, t := range iconTargets {
			icon, ok := icons.Files[t.source]
			if !ok {
				continue
			}
			files = append(files, File{Path: "favicons/" + id + "/" + t.target, Content: icon.Content})
		}
	}

	return PullRequest{
		RepoSlug:    repoSlug,
		Branch:      "feature/white-label-" + id,
		Files:       files,
		Title:       fmt.Sprintf("Add %s white label theme", brand),
		Description: description(brand, id, username, icons != nil),
	}
}

func description(brand, id, username string, withIcons bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# White Label Theme: %s\n\n", brand)
	b.WriteString("This PR adds the following generated theme files:\n")
	fmt.Fprintf(&b, "- `%s.brand.ts`: TypeScript theme configuration\n", id)
	fmt.Fprintf(&b, "- `%s.colors.scss`: SCSS color variables\n", id)
	fmt.Fprintf(&b, "- `%s.scss`: Main theme file with color assignments\n", id)
	fmt.Fprintf(&b, "- `%s-email.scss`: Email-specific theme styles\n", id)
	if withIcons {
		fmt.Fprintf(&b, "- `favicons/%s`: Favicons for the white label\n", id)
		fmt.Fprintf(&b, "- `favicons/%s/manifest.json`: Web app manifest for the white label\n", id)
	}
	b.WriteString("\n## Changes\n")
	fmt.Fprintf(&b, "- Created new branch `feature/white-label-%s`\n", id)
	b.WriteString("- Generated theme files from design tokens\n")
	b.WriteString("- Added theme files to `themes/`\n")
	if username != "" {
		fmt.Fprintf(&b, "\n# Generated by\n- User: %s\n", username)
	}
	return b.String()
}
