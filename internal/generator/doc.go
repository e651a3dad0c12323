// Package generator sequences a generation run: capability detection,
// context resolution, tree rendering, and the generation report. It is the
// only place that writes outside the rendered tree.
package generator
