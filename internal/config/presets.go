package config

import "sort"

// Presets holds named parameter sets per page.
var Presets = map[string]map[string]map[string]float64{
	"projectile": {
		"cannon": {"speed": 80, "angle": 35, "gravity": 9.8, "height": 0},
		"cliff":  {"speed": 30, "angle": 15, "gravity": 9.8, "height": 60},
		"moon":   {"speed": 20, "angle": 45, "gravity": 1.6, "height": 0},
		"steep":  {"speed": 50, "angle": 80, "gravity": 9.8, "height": 0},
	},
	"orbit": {
		"circular":  {"speed": 1},
		"elliptic":  {"speed": 0.75},
		"near-miss": {"speed": 0.35, "radius": 250},
		"escape":    {"speed": 1.45},
	},
	"pendulum": {
		"small":    {"theta0": 10, "damping": 0},
		"large":    {"theta0": 150, "damping": 0},
		"overdamp": {"theta0": 60, "damping": 2},
		"low-grav": {"theta0": 45, "gravity": 1.6},
	},
	"double-pendulum": {
		"gentle":    {"theta1": 15, "theta2": 15},
		"chaos":     {"theta1": 170, "theta2": 170},
		"symmetric": {"theta1": 90, "theta2": 90},
	},
	"decay": {
		"secular":       {"parent": 20, "daughter": 0.5},
		"transient":     {"parent": 6, "daughter": 2},
		"slow-daughter": {"parent": 1, "daughter": 15},
	},
	"circuit": {
		"fast":   {"resistance": 1, "capacitance": 100},
		"slow":   {"resistance": 100, "capacitance": 100, "period": 20},
		"ripple": {"resistance": 10, "capacitance": 500, "period": 1},
	},
	"skatepark": {
		"frictionless": {"friction": 0},
		"sticky":       {"friction": 0.3},
		"steep":        {"curve": 1, "start": -3},
	},
	"foodweb": {
		"classic":   {"alpha": 1.1, "beta": 0.4, "delta": 0.1, "gamma": 0.4},
		"near-eq":   {"prey0": 4, "predator0": 3},
		"boom-bust": {"prey0": 40, "predator0": 2},
	},
	"adas": {
		"boom":         {"demand": 30},
		"recession":    {"demand": -30},
		"supply-shock": {"supply": 25},
	},
	"sorting": {
		"small": {"count": 8, "interval": 0.4},
		"large": {"count": 64, "interval": 0.03},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(page, preset string) map[string]float64 {
	pagePresets, ok := Presets[page]
	if !ok {
		return nil
	}
	params, ok := pagePresets[preset]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

func ListPresets(page string) []string {
	pagePresets, ok := Presets[page]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(pagePresets))
	for name := range pagePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
