// SPDX-License-Identifier: MPL-2.0

package system

// DistributionUbuntu is the distributor ID reported by lsb_release on Ubuntu.
const DistributionUbuntu = "Ubuntu"

// Distribution identifies the operating system release rustle is running on,
// as reported by lsb_release.
type Distribution struct {
	// ID is the distributor ID, e.g. "Ubuntu".
	ID string
	// Release is the release number, e.g. "24.04".
	Release string
}

// IsUbuntu reports whether the distribution is Ubuntu.
func (d Distribution) IsUbuntu() bool {
	return d.ID == DistributionUbuntu
}

// AtLeast reports whether the distribution release is release or newer.
// Releases compare lexicographically, which matches Ubuntu's YY.MM numbering
// for every release rustle supports.
func (d Distribution) AtLeast(release string) bool {
	return d.Release >= release
}

// String returns the distribution in "ID Release" form.
func (d Distribution) String() string {
	return d.ID + " " + d.Release
}
