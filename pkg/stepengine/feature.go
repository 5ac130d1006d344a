package stepengine

import (
	"github.com/gwen-io/gwen/pkg/ast"
	"github.com/gwen-io/gwen/pkg/evalctx"
	"github.com/gwen-io/gwen/pkg/eventbus"
)

// RunFeature evaluates every bare Scenario and every Rule's Scenarios in
// source order, firing Feature/Rule node events around them. By the time a
// Feature reaches here, pkg/normaliser has already expanded outlines and
// replicated the applicable Background into each Scenario, so this is a
// flat walk — Rule grouping affects only event nesting, not evaluation
// order or scope.
func (e *Engine) RunFeature(ctx *evalctx.EvalContext, feature ast.Feature) (ast.Feature, error) {
	ctx.Bus.PublishBefore(eventbus.Event{NodeType: ast.NodeFeature, Source: feature})

	scenarios := make([]ast.Scenario, len(feature.Scenarios))
	for i, sc := range feature.Scenarios {
		result, err := e.RunScenario(ctx, sc)
		if err != nil {
			return feature, err
		}
		scenarios[i] = result
	}
	feature = feature.WithScenarios(scenarios)

	rules := make([]ast.Rule, len(feature.Rules))
	for i, r := range feature.Rules {
		result, err := e.runRule(ctx, r)
		if err != nil {
			return feature, err
		}
		rules[i] = result
	}
	feature = feature.WithRules(rules)

	ctx.Bus.PublishAfter(eventbus.Event{NodeType: ast.NodeFeature, Source: feature})
	return feature, nil
}

func (e *Engine) runRule(ctx *evalctx.EvalContext, rule ast.Rule) (ast.Rule, error) {
	ctx.Bus.PublishBefore(eventbus.Event{NodeType: ast.NodeRule, Source: rule, CallChain: []ast.NodeType{ast.NodeFeature}})

	scenarios := make([]ast.Scenario, len(rule.Scenarios))
	for i, sc := range rule.Scenarios {
		result, err := e.RunScenario(ctx, sc)
		if err != nil {
			return rule, err
		}
		scenarios[i] = result
	}
	rule = rule.WithScenarios(scenarios)

	ctx.Bus.PublishAfter(eventbus.Event{NodeType: ast.NodeRule, Source: rule, CallChain: []ast.NodeType{ast.NodeFeature}})
	return rule, nil
}

// RunSpec evaluates spec's Feature and returns spec with it replaced.
func (e *Engine) RunSpec(ctx *evalctx.EvalContext, spec ast.Spec) (ast.Spec, error) {
	feature, err := e.RunFeature(ctx, spec.Feature)
	if err != nil {
		return spec, err
	}
	return spec.WithFeature(feature), nil
}
