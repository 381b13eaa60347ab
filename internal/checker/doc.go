// Package checker implements framecheck's clickjacking check.
//
// Architecture overview:
//
//   - NormalizeURL / ValidateURL turn operator input into a request URL.
//   - Fetcher performs the one GET a check needs. RestyFetcher is the
//     production implementation; it follows redirects, sends a fixed
//     User-Agent and can refuse private network addresses.
//   - Classify is a pure function over a case-insensitive Headers view. It
//     evaluates X-Frame-Options and CSP frame-ancestors independently.
//   - ClickjackingChecker ties these together and returns either a Verdict or
//     a *CheckError carrying a closed ErrorKind. BuildResult folds that into
//     the CheckResult record served by the API and printed by the CLI.
//   - Runner fans a checker out over many targets for the CLI.
package checker
