// Package scaffold embeds the default Android application template used by
// "droidgen new". The template is a plain directory tree whose paths and text
// bodies carry {{parameter}} tokens; the render package turns it into a
// concrete project.
package scaffold
