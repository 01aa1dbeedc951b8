// Package cosmic tags reconstructed particle-flow objects whose trajectory
// looks like a through-going cosmic ray.
//
// Each object is classified independently in five stages:
//
//  1. SelectAxis picks the canonical principal axis.
//  2. CheckTiming flags objects with hits outside the drift window.
//  3. ProjectExtent finds the object's start and end points along the axis.
//  4. ClassifyBoundary maps endpoint proximity to a tag kind and score.
//  5. Emitter collects tags and the object/axis association tables.
//
// Tagger drives the stages for every object of one event. The package holds
// no state across events and performs no I/O; the event record, storage and
// configuration live in sibling packages.
package cosmic
