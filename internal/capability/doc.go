// Package capability probes the local machine for the toolchain a generated
// project needs: the JDK, Gradle, installed Android platforms, and Android
// Studio. Detection never fails; anything that cannot be determined is
// recorded as Absent with a note explaining why.
package capability
