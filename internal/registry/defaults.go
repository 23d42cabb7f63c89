package registry

// DefaultRegistryYAML is the roster seeded by `wayfinder init` and used when
// a project has no agents.yaml of its own. Pattern lists are matched against
// the case-folded task text; affinities name tool/editor identifiers.
const DefaultRegistryYAML = `# wayfinder agent registry
agents:
  - id: backend
    name: Backend Engineer
    description: Server-side code, APIs, builds, and bug fixes.
    patterns: [backend, api, server, database, compile, build, fix, bug, error, endpoint, migration]
    tags: [go, python, java, sql]
    baseline_success_rate: 0.85
    baseline_cost: 1.0
    affinities: [vscode, jetbrains, terminal]

  - id: frontend
    name: Frontend Engineer
    description: UI components, styling, and client-side behavior.
    patterns: [frontend, ui, component, css, layout, style, react, render, browser, accessibility]
    tags: [javascript, typescript, node, css]
    baseline_success_rate: 0.82
    baseline_cost: 1.0
    affinities: [vscode, terminal]

  - id: qa
    name: QA Engineer
    description: Test authoring, flaky-test triage, and coverage work.
    patterns: [test, coverage, flaky, assert, regression, verify, e2e, integration, unit]
    tags: [testing]
    baseline_success_rate: 0.88
    baseline_cost: 0.8
    affinities: [terminal]

  - id: devops
    name: DevOps Engineer
    description: CI pipelines, containers, deployments, and infrastructure.
    patterns: [deploy, pipeline, ci, docker, container, kubernetes, terraform, infra, release, monitor]
    tags: [docker, terraform, kubernetes]
    baseline_success_rate: 0.80
    baseline_cost: 1.4
    affinities: [terminal]

  - id: docs
    name: Technical Writer
    description: Documentation, readmes, and changelogs.
    patterns: [document, readme, changelog, docs, guide, tutorial, comment, explain]
    tags: [markdown]
    baseline_success_rate: 0.90
    baseline_cost: 0.5
    affinities: [vscode]

  - id: general
    name: Generalist
    description: Fallback profile for tasks no specialist claims.
    patterns: []
    tags: []
    baseline_success_rate: 0.75
    baseline_cost: 1.0
    affinities: []
`
