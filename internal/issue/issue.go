// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	FileNotFoundId Id = iota + 1
	ParseFailureId
	SelectorConflictId
	SelectorPositionId
	SelectorMissingId
	CircularIncludeId
	UnresolvableIncludeId
	IncludeOutsideRootId
	InlineCommandFailedId
	OverlappingEditsId
	ConfigLoadFailedId
	InvalidRuntimeModeId
	ShellNotFoundId
	PermissionDeniedId
	OutputWriteFailedId
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

// Render renders the Markdown message plus its links with the glamour style
// at stylePath ("dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# Script not found!

The script you asked to bundle does not exist or is not a regular file.

## Things you can try:
- Check the spelling of the path
- Pass the script on standard input instead:
~~~
$ shbundle < main.sh > dist/main.sh
~~~`,
	}

	parseFailureIssue = &Issue{
		id: ParseFailureId,
		mdMsg: `
# The script could not be parsed!

The bash grammar rejected one of the scripts of the bundle.

## Things you can try:
- Run the script through ` + "`bash -n`" + ` to locate the syntax error
- Use ` + "`shbundle inspect FILE`" + ` to see how the directives are recognized
- Disable strict parsing if the grammar is stricter than your shell:
~~~cue
strict_parse: false
~~~`,
	}

	selectorConflictIssue = &Issue{
		id: SelectorConflictId,
		mdMsg: `
# Interpreter selectors do not match!

Every script of a bundle that declares a ` + "`#!`" + ` line must declare the same one,
because the bundle is run by a single interpreter.

## Things you can try:
- Use the same shebang line in every script, for example ` + "`#!/usr/bin/env bash`" + `
- Remove the shebang from library scripts that are only ever sourced`,
	}

	selectorPositionIssue = &Issue{
		id: SelectorPositionId,
		mdMsg: `
# Misplaced interpreter selector!

A ` + "`#!`" + ` comment is only an interpreter selector on the very first line, and
each script may have one.

## Things you can try:
- Move the shebang to the first line of the file
- Remove any additional ` + "`#!`" + ` comment from the file`,
	}

	selectorMissingIssue = &Issue{
		id: SelectorMissingId,
		mdMsg: `
# No interpreter selector!

None of the bundled scripts starts with a ` + "`#!`" + ` line, so the bundle would not
know which interpreter runs it.

## Things you can try:
- Add a shebang to the entry script:
~~~bash
#!/usr/bin/env bash
~~~`,
	}

	circularIncludeIssue = &Issue{
		id: CircularIncludeId,
		mdMsg: `
# Circular include detected!

A script sources itself, directly or through other scripts. Bundling would never end.

## Things you can try:
- Follow the chain printed above and remove one of the ` + "`source`" + ` lines
- Move the shared definitions into a library that sources nothing`,
	}

	unresolvableIncludeIssue = &Issue{
		id: UnresolvableIncludeId,
		mdMsg: `
# Include could not be resolved!

Only ` + "`source`" + ` and ` + "`.`" + ` directives with a literal path can be bundled.
Paths built from variables or command substitutions are only known when the script runs.

## Things you can try:
- Write the path literally: ` + "`source ./lib/log.sh`" + `
- Check that the file exists relative to the script that sources it`,
	}

	includeOutsideRootIssue = &Issue{
		id: IncludeOutsideRootId,
		mdMsg: `
# Include outside the root directory!

Scripts may only source files inside the bundle root.

## Things you can try:
- Widen the root with ` + "`-d DIR`" + `
- Copy the shared script into the project`,
	}

	inlineCommandFailedIssue = &Issue{
		id: InlineCommandFailedId,
		mdMsg: `
# Inline command failed!

A command substitution marked with ` + "`# build: inline`" + ` exited with a non-zero
status while bundling.

## Things you can try:
- Run the command by hand from the directory of the script that contains it
- Switch between the ` + "`native`" + ` and ` + "`virtual`" + ` runtimes:
~~~
$ shbundle --runtime virtual main.sh
~~~`,
	}

	overlappingEditsIssue = &Issue{
		id: OverlappingEditsId,
		mdMsg: `
# Directives overlap!

Two directives of the same script cover overlapping text, for example an inline
marker nested inside another inline substitution.

## Things you can try:
- Split the nested substitution into a separate assignment`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Print the effective configuration:
~~~
$ shbundle config show
~~~
- Write a fresh default file:
~~~
$ shbundle config init
~~~`,
	}

	invalidRuntimeModeIssue = &Issue{
		id: InvalidRuntimeModeId,
		mdMsg: `
# Invalid runtime mode!

Inline commands run either in the host shell or in the built-in interpreter.

## Valid runtimes:
- ` + "`native`" + ` runs ` + "`<shell> -c <command>`" + `
- ` + "`virtual`" + ` runs the command in the embedded mvdan/sh interpreter`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

The native runtime could not find the configured shell in your PATH.

## Things you can try:
- Install bash, or point ` + "`--shell`" + ` at an installed shell
- Use the virtual runtime, which needs no host shell`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

A script or directory of the bundle could not be read.

## Things you can try:
- Check the permissions of the files listed above
- Run ` + "`ls -l`" + ` on the directory that contains them`,
	}

	outputWriteFailedIssue = &Issue{
		id: OutputWriteFailedId,
		mdMsg: `
# Failed to write the bundle!

The bundled script or its manifest could not be written.

## Things you can try:
- Check that the output directory is writable
- Check the free disk space`,
	}

	issues = map[Id]*Issue{
		fileNotFoundIssue.Id():        fileNotFoundIssue,
		parseFailureIssue.Id():        parseFailureIssue,
		selectorConflictIssue.Id():    selectorConflictIssue,
		selectorPositionIssue.Id():    selectorPositionIssue,
		selectorMissingIssue.Id():     selectorMissingIssue,
		circularIncludeIssue.Id():     circularIncludeIssue,
		unresolvableIncludeIssue.Id(): unresolvableIncludeIssue,
		includeOutsideRootIssue.Id():  includeOutsideRootIssue,
		inlineCommandFailedIssue.Id(): inlineCommandFailedIssue,
		overlappingEditsIssue.Id():    overlappingEditsIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		invalidRuntimeModeIssue.Id():  invalidRuntimeModeIssue,
		shellNotFoundIssue.Id():       shellNotFoundIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
		outputWriteFailedIssue.Id():   outputWriteFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := slices.Collect(maps.Values(issues))
	slices.SortFunc(values, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
