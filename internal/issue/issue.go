// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies an entry in the guidance catalog.
type Id int

const (
	NotRootId Id = iota + 1
	UnsupportedDistributionId
	PackageManagerFailedId
	UnknownExperimentId
	ConfigLoadFailedId
)

// MarkdownMsg is Markdown text rendered to the terminal via glamour.
type MarkdownMsg string

// HttpLink is a URL shown in the "See also" section of a rendered card.
type HttpLink string

// Issue is a guidance card for a known failure condition. Cards are rendered
// to styled terminal output after the error itself has been reported, so they
// focus on remediation rather than diagnosis.
type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	extLinks []HttpLink // upstream projects or docs worth reading
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render returns the card as styled terminal output. stylePath selects the
// glamour style ("dark", "light", "auto" or a JSON style file path).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

// render is a seam for tests, which swap it out to avoid glamour's terminal
// detection.
var render = glamour.Render

var notRootIssue = &Issue{
	id: NotRootId,
	mdMsg: `
# Root privileges required!

rustle rewires system binaries under /usr/bin, which only root can do.

## Things you can try:
- Re-run the command with sudo:
~~~
$ sudo rustle enable
~~~`,
}

var unsupportedDistributionIssue = &Issue{
	id: UnsupportedDistributionId,
	mdMsg: `
# Unsupported distribution!

The experiments install packages that only exist in the Ubuntu archive,
so rustle refuses to run anywhere else.

## Things you can try:
- Check what your machine reports:
~~~
$ lsb_release -is
~~~

- If you accept the risk, bypass the check:
~~~
$ sudo rustle enable --no-compatibility-check
~~~
  This is unsupported and can leave the system unable to boot.`,
}

var packageManagerFailedIssue = &Issue{
	id: PackageManagerFailedId,
	mdMsg: `
# Package operation failed!

An apt-get invocation exited non-zero.

## Common causes:
- Another process holds the dpkg lock
- The package archive is unreachable
- The package does not exist on this Ubuntu release

## Things you can try:
- Refresh the package lists and retry:
~~~
$ sudo apt-get update
~~~

- Read the apt output above for the underlying failure
- If you override the apt command in your config, verify it works on its own:
~~~cue
apt: command: "apt-get"
~~~`,
}

var unknownExperimentIssue = &Issue{
	id: UnknownExperimentId,
	mdMsg: `
# Unknown experiment!

A selected experiment name does not match anything in the catalog.

## Known experiments:
- coreutils
- diffutils
- findutils
- sudo-rs

## Things you can try:
- List every experiment and its state:
~~~
$ rustle status
~~~

- Check the experiments list in your config.cue for typos`,
	extLinks: []HttpLink{
		"https://github.com/uutils/coreutils",
		"https://github.com/trifectatechfoundation/sudo-rs",
	},
}

var configLoadFailedIssue = &Issue{
	id: ConfigLoadFailedId,
	mdMsg: `
# Failed to load configuration!

rustle could not read or validate config.cue.

## Where the file lives:
- $XDG_CONFIG_HOME/rustle/config.cue, usually ~/.config/rustle/config.cue

## Things you can try:
- Start over with a generated file:
~~~
$ rustle config init
~~~

- Check the CUE syntax at the position the error points at
- Delete the file to fall back to the built-in defaults

## Example configuration:
~~~cue
experiments: ["coreutils", "sudo-rs"]

apt: {
	update_before_enable: true
}

ui: verbose: false
~~~`,
}

var issues = map[Id]*Issue{
	NotRootId:                 notRootIssue,
	UnsupportedDistributionId: unsupportedDistributionIssue,
	PackageManagerFailedId:    packageManagerFailedIssue,
	UnknownExperimentId:       unknownExperimentIssue,
	ConfigLoadFailedId:        configLoadFailedIssue,
}

// Values returns every catalog entry.
func Values() []*Issue {
	return maps.Values(issues)
}

// Get returns the catalog entry for id, or nil if there is none.
func Get(id Id) *Issue {
	return issues[id]
}
