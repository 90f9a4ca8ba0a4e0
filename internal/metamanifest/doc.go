// Package metamanifest loads meta-manifest documents and expands their
// building blocks.
//
// A meta-manifest lists remote URL templates, local URL templates, and mirrors.
// ParseRepositorySpec splits "org/repo[@branch]" tokens, ExpandRemote fills
// "{org}" and "{repo}" placeholders, and ApplyRemoteTemplates selects the
// templates a mirror allows and expands them in declaration order.
package metamanifest
