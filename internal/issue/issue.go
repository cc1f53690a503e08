// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	NetworkFailedId Id = iota + 1
	HashMismatchId
	UnsafeArchiveId
	ExtractionFailedId
	ManifestDecodeFailedId
	FileWriteFailedId
	ConfigLoadFailedId
	PackNotFoundId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue as terminal markdown using the given glamour
// style ("dark", "light", "auto", or a style file path).
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	networkFailedIssue = &Issue{
		id: NetworkFailedId,
		mdMsg: `
# Could not reach the pack server!

A request to the modpacks API or to a file mirror failed before a usable
response came back.

## Things you can try:
- Check your internet connection
- Retry later, mirrors are sometimes briefly unavailable
- Point packget at another API endpoint:
~~~cue
api: {
	base_url: "https://api.modpacks.ch/public/"
}
~~~

Files that were already downloaded stay on disk and are simply overwritten
on the next run.`,
		extLinks: []HttpLink{"https://api.modpacks.ch/public/"},
	}

	hashMismatchIssue = &Issue{
		id: HashMismatchId,
		mdMsg: `
# A downloaded file failed verification!

The SHA-1 digest of a downloaded file does not match the one published in the
pack manifest. The file was not written.

## Common causes:
- A mirror is serving a stale or corrupted copy
- A proxy rewrote the response body

## Things you can try:
- Run the download again
- Download through a different network`,
	}

	unsafeArchiveIssue = &Issue{
		id: UnsafeArchiveId,
		mdMsg: `
# The overrides archive contains an unsafe path!

An entry of ` + "`overrides.zip`" + ` would have been written outside the pack
directory (for example ` + "`../../etc/passwd`" + `). Extraction was stopped.

## Things you can try:
- Do not use this pack version
- Report the pack to its author or to CurseForge`,
	}

	extractionFailedIssue = &Issue{
		id: ExtractionFailedId,
		mdMsg: `
# Could not extract the pack overrides!

The overrides archive could not be opened or one of its entries could not be
written. Entries extracted before the failure remain on disk.

## Things you can try:
- Check the free space and permissions of the destination
- Delete the pack directory and download it again`,
	}

	manifestDecodeFailedIssue = &Issue{
		id: ManifestDecodeFailedId,
		mdMsg: `
# The pack manifest could not be read!

The API answered, but its response was not a valid pack manifest, or the pack
has no published versions.

## Things you can try:
- Check that the pack id and version are correct
- List the available versions:
~~~
$ packget ftb search <name>
~~~`,
	}

	fileWriteFailedIssue = &Issue{
		id: FileWriteFailedId,
		mdMsg: `
# Could not write to the destination!

A directory could not be created or a file could not be written.

## Things you can try:
- Check the permissions of the destination directory
- Choose another destination:
~~~
$ packget --dest /path/to/packs ftb download <id> latest
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

There was an error loading your packget configuration file.

## Configuration file locations:
- Linux: ~/.config/packget/config.cue
- macOS: ~/Library/Application Support/packget/config.cue
- Windows: %APPDATA%\packget\config.cue

## Things you can try:
- Check the syntax of your config file
- Reset to the defaults:
~~~
$ packget config init --force
~~~

- View the effective configuration:
~~~
$ packget config show
~~~`,
	}

	packNotFoundIssue = &Issue{
		id: PackNotFoundId,
		mdMsg: `
# Pack not found!

The API does not know the requested pack or version.

## Things you can try:
- Search for the pack to find its id:
~~~
$ packget cf search <name>
~~~

- Use ` + "`latest`" + ` instead of a specific version id`,
	}

	issues = map[Id]*Issue{
		networkFailedIssue.Id():        networkFailedIssue,
		hashMismatchIssue.Id():         hashMismatchIssue,
		unsafeArchiveIssue.Id():        unsafeArchiveIssue,
		extractionFailedIssue.Id():     extractionFailedIssue,
		manifestDecodeFailedIssue.Id(): manifestDecodeFailedIssue,
		fileWriteFailedIssue.Id():      fileWriteFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		packNotFoundIssue.Id():         packNotFoundIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
