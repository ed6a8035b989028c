// Package materialize expands classpath entries (jar archives and
// class directories) into the scratch workspace, producing the ordered
// source-pair list that conflict resolution consumes.
package materialize
