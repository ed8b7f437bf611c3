// Package rosdoc prepares Sphinx documentation builds for ROS packages.
// It locates user-authored documentation in a package, stages it into a
// build directory, synthesizes conf.py and index.rst from package metadata,
// and enriches package metadata from a ROS distribution index.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., fs/, etree/, http/, sqlite/).
package rosdoc
