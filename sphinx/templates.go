package sphinx

import (
	"bytes"
	"fmt"
	"text/template"
)

const confPyTemplate = `# This file was autogenerated by rosdoc.

# Sphinx extensions.
extensions = [
    'breathe',
    'exhale',
    'sphinx.ext.autodoc',
    # 'sphinx.ext.doctest',
    # 'sphinx.ext.imgmath',
    'sphinx.ext.intersphinx',
]

breathe_projects = {
    "{{.Name}} Doxygen Project": "generated/doxygen/xml",
}
breathe_default_project = "{{.Name}} Doxygen Project"

# Setup the exhale extension.
exhale_args = {
    # These arguments are required.
    "containmentFolder": "./api",
    "rootFileName": "library_root.rst",
    "rootFileTitle": "Library API",
    "doxygenStripFromPath": "..",
    # Suggested optional arguments.
    "createTreeView": True,
    # TIP: if using the sphinx-bootstrap-theme, you need
    # "treeViewIsBootstrap": True,
    "exhaleExecutesDoxygen": False,
    "exhaleUseDoxyfile": True,
#    "exhaleDoxygenStdin": """\
#INPUT = {{.DoxygenInputFiles}}
#GENERATE_HTML = YES{{range .TagFileEntries}}
#{{.}}{{end}}
#GENERATE_TAGFILE = "generated/doxygen/{{.Name}}.tag"
#FILE_PATTERNS = *.hpp *.h *.cpp *.c *.cc
#""",
}

# The master toctree document.
master_doc = 'index'

# General information about the project.
project = u'{{.Name}}'
copyright = u'{{.Licenses}}'

version = '{{.ShortVersion}}'
release = '{{.Version}}'

# Output file base name for HTML help builder.
htmlhelp_basename = '{{.Name}}'

# Intersphinx mapping.
intersphinx_mapping = {
    'http://docs.python.org/': None,{{range .IntersphinxMappings}}
    {{.}},{{end}}
}

autoclass_content = "both"
`

const indexRstTemplate = `{{.Name}}
{{.Underline}}
{{if .Description}}
{{.Description}}
{{end}}

Doxygen Content
===============

:doc:` + "`api/library_root`" + `

:doc:` + "`source/{{.Name}}`" + `


Sphinx Subprojects
==================

:doc:` + "`source/index`" + `


Indices and Search
==================

* :ref:` + "`genindex`" + `
* :ref:` + "`search`" + `

`

var (
	confPy   = template.Must(template.New("conf.py").Option("missingkey=error").Parse(confPyTemplate))
	indexRst = template.Must(template.New("index.rst").Option("missingkey=error").Parse(indexRstTemplate))
)

// templateData holds the values substituted into conf.py and index.rst.
type templateData struct {
	Name                string
	Version             string
	ShortVersion        string
	Licenses            string
	Description         string
	Underline           string
	DoxygenInputFiles   string
	TagFileEntries      []string
	IntersphinxMappings []string
}

func render(tpl *template.Template, data *templateData) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}
