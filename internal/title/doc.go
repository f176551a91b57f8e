// Package title resolves the output title of a recording from its source
// filename and optional recording metadata.
//
// Resolution runs in four steps. The channel prefix of the filename selects
// a Strategy. The strategy extracts a raw title. The Cleaner strips
// blacklisted fragments. Finally a series index may append a formatted episode
// code such as S03E42.
//
// A Context carries everything resolution reads: the per-channel strategy
// map, the cleaner, the series index and the placeholder used when a filename
// does not follow the "<channel>_<title>_<timestamp>" convention. It is built
// once per configuration load and never mutated afterwards, so it is safe to
// share between goroutines.
package title
