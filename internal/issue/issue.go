// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ScanRootNotFoundId Id = iota + 1
	EntryFileMissingId
	DescriptorWriteFailedId
	StaleDescriptorsId
	ConfigLoadFailedId
	TemplateInvalidId
	WatchLimitReachedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
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

// Render renders the issue as terminal Markdown using the given glamour style
// ("auto", "dark", "light", "notty" or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			extraMd += "\n- <" + string(link) + ">"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	scanRootNotFoundIssue = &Issue{
		id: ScanRootNotFoundId,
		mdMsg: `
# Scan root not found

The directory that should contain the demo programs does not exist.

## Things you can try:
- Run from the repository root, or pass it explicitly:
~~~
$ cmakegen generate /path/to/cpp
~~~

- Set ` + "`root`" + ` in your cmakegen.cue.`,
		docLinks: []HttpLink{"https://docs.fenicsproject.org/dolfinx/main/cpp/demo.html"},
	}

	entryFileMissingIssue = &Issue{
		id: EntryFileMissingId,
		mdMsg: `
# A program directory has no entry file

Every directory that holds primary sources (e.g. ` + "`*.cpp`" + `) must also contain
the category entry file, usually ` + "`main.cpp`" + `. No descriptor was written.

## Things you can try:
- Add the entry file to the reported directory.
- If the directory is maintained by hand, exclude it:
~~~
$ cmakegen generate -x demo/my_custom_demo
~~~`,
		docLinks: []HttpLink{"https://docs.fenicsproject.org/dolfinx/main/cpp/demo.html"},
	}

	descriptorWriteFailedIssue = &Issue{
		id: DescriptorWriteFailedId,
		mdMsg: `
# Could not write a build descriptor

A CMakeLists.txt could not be written. Descriptors written before the failure
were kept.

## Things you can try:
- Check the permissions of the reported directory.
- Check that the disk is not full.`,
		docLinks: []HttpLink{"https://cmake.org/cmake/help/latest/manual/cmake-language.7.html"},
	}

	staleDescriptorsIssue = &Issue{
		id: StaleDescriptorsId,
		mdMsg: `
# Build descriptors are out of date

The committed CMakeLists.txt files differ from what the generator would write.

## Things you can try:
- Regenerate and commit the result:
~~~
$ cmakegen generate
$ git add -A && git commit -m "Regenerate demo CMakeLists"
~~~`,
		docLinks: []HttpLink{"https://docs.fenicsproject.org/dolfinx/main/cpp/demo.html"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file could not be parsed or did not match the schema.

## Things you can try:
- Show the file that was used:
~~~
$ cmakegen config path
~~~

- Write a fresh default file and compare:
~~~
$ cmakegen config dump
~~~`,
		docLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	templateInvalidIssue = &Issue{
		id: TemplateInvalidId,
		mdMsg: `
# Invalid descriptor template

The custom template could not be parsed or executed. Templates use Go's
text/template syntax and may reference ` + "`{{.ProjectName}}`" + ` and ` + "`{{.SourceFiles}}`" + `.

## Things you can try:
- Remove the ` + "`--template`" + ` flag to fall back to the built-in template.`,
		docLinks: []HttpLink{"https://pkg.go.dev/text/template"},
	}

	watchLimitReachedIssue = &Issue{
		id: WatchLimitReachedId,
		mdMsg: `
# File watch limit reached

The operating system refused to watch more directories.

## Things you can try:
- Raise the inotify limit:
~~~
$ sudo sysctl fs.inotify.max_user_watches=524288
~~~

- Narrow the watched tree with ` + "`ignore`" + ` patterns in cmakegen.cue.`,
		docLinks: []HttpLink{"https://github.com/fsnotify/fsnotify"},
	}

	issues = map[Id]*Issue{
		scanRootNotFoundIssue.Id():      scanRootNotFoundIssue,
		entryFileMissingIssue.Id():      entryFileMissingIssue,
		descriptorWriteFailedIssue.Id(): descriptorWriteFailedIssue,
		staleDescriptorsIssue.Id():      staleDescriptorsIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		templateInvalidIssue.Id():       templateInvalidIssue,
		watchLimitReachedIssue.Id():     watchLimitReachedIssue,
	}
)

// Values returns every catalogued issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
