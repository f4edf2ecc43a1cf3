// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Id identifies an issue in the catalog. The zero value means "no issue".
type Id int

const (
	PackNotFoundId Id = iota + 1
	SourceNotFoundId
	SourceUnreadableId
	CorruptPackId
	NotADirectoryId
	DestinationUnwritableId
	InvalidPackNameId
	UnsafeModNameId
	MetaOnlyPackId
	ConfigLoadFailedId
	DeployVerifyFailedId
)

type (
	// MarkdownMsg is Markdown help text.
	MarkdownMsg string

	// Issue is the long-form help for one class of failure.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

// Id returns the issue's catalog key.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the unrendered help.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the help for a terminal with the given glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(style string) (string, error) {
	return render(strings.TrimSpace(string(i.mdMsg)), style)
}

var (
	render = glamour.Render

	packNotFoundIssue = &Issue{
		id: PackNotFoundId,
		mdMsg: `
# Pack not found

The pack argument is resolved in this order:
1. A path to a ` + "`.pck`" + ` file
2. A pack name in the catalog (the packs directory)
3. A file name without the ` + "`.pck`" + ` extension in the catalog

## Things you can try:
- List the packs the catalog knows about:
~~~
$ mcpacker list
~~~
- Point the catalog at another directory:
~~~
$ mcpacker list --packs-dir /path/to/packs
~~~`,
	}

	sourceNotFoundIssue = &Issue{
		id: SourceNotFoundId,
		mdMsg: `
# Mod file not found

One of the files to pack does not exist. Nothing was written.

## Things you can try:
- Check the path for typos
- Use ` + "`--glob`" + ` to pick files by pattern:
~~~
$ mcpacker create Survival --glob 'downloads/**/*.jar'
~~~`,
	}

	sourceUnreadableIssue = &Issue{
		id: SourceUnreadableId,
		mdMsg: `
# File could not be read

The file exists but could not be opened or read. Directories cannot be
packed; pass the files inside them instead.

## Things you can try:
- Check the file permissions
- Pass individual files or a ` + "`--glob`" + ` pattern instead of a directory`,
	}

	corruptPackIssue = &Issue{
		id: CorruptPackId,
		mdMsg: `
# Pack file is damaged

The pack ended in the middle of a mod or its header could not be decoded.
This usually means an interrupted download or copy.

## Things you can try:
- Copy the pack again from its source
- Recreate it from the original mod files:
~~~
$ mcpacker create <name> <mods...>
~~~`,
	}

	notADirectoryIssue = &Issue{
		id: NotADirectoryId,
		mdMsg: `
# Target is not a directory

Packs are saved into an existing directory and deployed into a directory.
The given path exists but is a file, or does not exist.

## Things you can try:
- Create the directory first
- Choose another target with ` + "`--out`" + ` or ` + "`--to`",
	}

	destinationUnwritableIssue = &Issue{
		id: DestinationUnwritableId,
		mdMsg: `
# Could not write output

Writing the pack or a deployed mod failed. Files written before the failure
are left in place.

## Things you can try:
- Check free disk space
- Check the directory permissions
- Deploy creates only the last directory of the target path; make sure its
  parent exists`,
	}

	invalidPackNameIssue = &Issue{
		id: InvalidPackNameId,
		mdMsg: `
# Invalid pack name

The pack name becomes the file name, so it must not be empty and must not
contain path separators.

## Things you can try:
- Pass a name as the first argument
- Use the interactive form:
~~~
$ mcpacker create --interactive
~~~`,
	}

	unsafeModNameIssue = &Issue{
		id: UnsafeModNameId,
		mdMsg: `
# Unsafe mod name

A mod inside this pack is named like a path (for example ` + "`../file.jar`" + `).
Extracting it could write outside the deploy directory, so deploy stopped.

## Things you can try:
- Inspect the pack with ` + "`mcpacker show <pack>`" + `
- Only deploy packs from sources you trust`,
	}

	metaOnlyPackIssue = &Issue{
		id: MetaOnlyPackId,
		mdMsg: `
# Pack payloads not loaded

The pack was read for its metadata only, so its mods cannot be written or
extracted. This is a bug in the command that loaded it.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

## Things you can try:
- Show where the configuration is read from:
~~~
$ mcpacker config path
~~~
- Write a fresh default file:
~~~
$ mcpacker config init --force
~~~
- Check MCPACKER_* environment variables`,
	}

	deployVerifyFailedIssue = &Issue{
		id: DeployVerifyFailedId,
		mdMsg: `
# Deployed file differs from the pack

After extraction a file did not hash to the same BLAKE3 digest as the mod
inside the pack. Something else may be writing into the deploy directory.

## Things you can try:
- Deploy again into an empty directory
- Compare digests with ` + "`mcpacker show --full <pack>`",
	}

	issues = map[Id]*Issue{
		packNotFoundIssue.Id():          packNotFoundIssue,
		sourceNotFoundIssue.Id():        sourceNotFoundIssue,
		sourceUnreadableIssue.Id():      sourceUnreadableIssue,
		corruptPackIssue.Id():           corruptPackIssue,
		notADirectoryIssue.Id():         notADirectoryIssue,
		destinationUnwritableIssue.Id(): destinationUnwritableIssue,
		invalidPackNameIssue.Id():       invalidPackNameIssue,
		unsafeModNameIssue.Id():         unsafeModNameIssue,
		metaOnlyPackIssue.Id():          metaOnlyPackIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		deployVerifyFailedIssue.Id():    deployVerifyFailedIssue,
	}
)

// Values returns every issue, ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id - b.id)
	})
}

// Get returns the issue for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
