// Package site orchestrates one build: it loads the content snapshot, runs the
// generation stages in order and publishes the theme's static assets.
//
// A build runs through the phases Idle, Loading, Generating and Publishing and
// returns to Idle. Stages run sequentially; the pages of a stage are rendered
// and written concurrently. Output is written in place, so a failed build
// leaves a partially written output root behind.
package site
