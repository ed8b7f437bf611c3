package sphinx_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/rosdoc"
	"github.com/fwojciec/rosdoc/sphinx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrefix(t *testing.T) *rosdoc.BuildPrefix {
	t.Helper()
	base := t.TempDir()
	source := filepath.Join(base, "src", "foo")
	require.NoError(t, os.MkdirAll(source, 0755))
	return &rosdoc.BuildPrefix{
		SourceDir: source,
		BuildDir:  filepath.Join(base, "build", "foo"),
		Package: &rosdoc.Package{
			Name:     "foo",
			Version:  "1.2.3",
			Licenses: []string{"Apache-2.0", "BSD"},
		},
	}
}

func TestRenderConfig(t *testing.T) {
	t.Parallel()

	t.Run("derives version fields", func(t *testing.T) {
		t.Parallel()

		conf, err := sphinx.RenderConfig(newPrefix(t))

		require.NoError(t, err)
		assert.Contains(t, conf, "version = '1.2'\n")
		assert.Contains(t, conf, "release = '1.2.3'\n")
		assert.Contains(t, conf, "copyright = u'Apache-2.0, BSD'\n")
		assert.Contains(t, conf, "project = u'foo'\n")
		assert.Contains(t, conf, `breathe_default_project = "foo Doxygen Project"`)
		assert.Contains(t, conf, `#GENERATE_TAGFILE = "generated/doxygen/foo.tag"`)
	})

	t.Run("names generator in header", func(t *testing.T) {
		t.Parallel()

		conf, err := sphinx.RenderConfig(newPrefix(t))

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(conf, "# This file was autogenerated by rosdoc.\n\n# Sphinx extensions.\n"), conf)
		assert.Contains(t, conf, "# General information about the project.\nproject = u'foo'\ncopyright = u'Apache-2.0, BSD'\n")
	})

	t.Run("enables fixed extensions and layout", func(t *testing.T) {
		t.Parallel()

		conf, err := sphinx.RenderConfig(newPrefix(t))

		require.NoError(t, err)
		for _, want := range []string{
			"    'breathe',\n",
			"    'exhale',\n",
			"    'sphinx.ext.autodoc',\n",
			"    'sphinx.ext.intersphinx',\n",
			`"containmentFolder": "./api",`,
			`"rootFileName": "library_root.rst",`,
			`"rootFileTitle": "Library API",`,
			`"createTreeView": True,`,
			`"exhaleExecutesDoxygen": False,`,
			`"exhaleUseDoxyfile": True,`,
		} {
			assert.Contains(t, conf, want)
		}
	})

	t.Run("renders cross references sorted by package", func(t *testing.T) {
		t.Parallel()

		prefix := newPrefix(t)
		prefix.TagFiles = map[string]string{
			"rcutils": "/xref/rcutils/rcutils.tag",
			"rclcpp":  "/xref/rclcpp/rclcpp.tag",
		}
		prefix.InventoryFiles = map[string]string{
			"rclpy": "/xref/rclpy/objects.inv",
		}

		conf, err := sphinx.RenderConfig(prefix)

		require.NoError(t, err)
		assert.Contains(t, conf,
			"#GENERATE_HTML = YES\n"+
				`#TAGFILES +="/xref/rclcpp/rclcpp.tag=http://docs.ros.org/en/latest/p/rclcpp"`+"\n"+
				`#TAGFILES +="/xref/rcutils/rcutils.tag=http://docs.ros.org/en/latest/p/rcutils"`+"\n"+
				"#GENERATE_TAGFILE")
		assert.Contains(t, conf,
			"    'http://docs.python.org/': None,\n"+
				"    'rclpy': ('http://docs.ros.org/en/latest/p/rclpy', ('/xref/rclpy/objects.inv')),\n"+
				"}\n")
	})

	t.Run("no cross references keeps mapping minimal", func(t *testing.T) {
		t.Parallel()

		conf, err := sphinx.RenderConfig(newPrefix(t))

		require.NoError(t, err)
		assert.Contains(t, conf, "    'http://docs.python.org/': None,\n}\n")
		assert.Contains(t, conf, "#GENERATE_HTML = YES\n#GENERATE_TAGFILE")
	})
}

func TestRenderIndex(t *testing.T) {
	t.Parallel()

	t.Run("underlines heading to name length", func(t *testing.T) {
		t.Parallel()

		index, err := sphinx.RenderIndex(newPrefix(t))

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(index, "foo\n===\n\n\nDoxygen Content\n"), index)
		assert.Contains(t, index, ":doc:`source/foo`")
		assert.Contains(t, index, ":doc:`api/library_root`")
		assert.Contains(t, index, "* :ref:`genindex`\n* :ref:`search`\n")
	})

	t.Run("includes description", func(t *testing.T) {
		t.Parallel()

		prefix := newPrefix(t)
		prefix.Package.Description = "Minimal publisher examples."

		index, err := sphinx.RenderIndex(prefix)

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(index, "foo\n===\n\nMinimal publisher examples.\n\n\nDoxygen Content\n"), index)
	})
}

func TestTagFileEntry(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		`TAGFILES +="dep.tag=http://docs.ros.org/en/latest/p/dep"`,
		sphinx.TagFileEntry("dep", "dep.tag"))
}

func TestIntersphinxMapping(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		`'dep': ('http://docs.ros.org/en/latest/p/dep', ('dep/objects.inv'))`,
		sphinx.IntersphinxMapping("dep", "dep/objects.inv"))
}

func TestPrefixWriter_WritePrefix(t *testing.T) {
	t.Parallel()

	t.Run("writes files and links source", func(t *testing.T) {
		t.Parallel()

		prefix := newPrefix(t)

		err := sphinx.NewPrefixWriter(nil).WritePrefix(context.Background(), prefix)
		require.NoError(t, err)

		conf, err := os.ReadFile(filepath.Join(prefix.BuildDir, "conf.py"))
		require.NoError(t, err)
		assert.Contains(t, string(conf), "version = '1.2'")
		index, err := os.ReadFile(filepath.Join(prefix.BuildDir, "index.rst"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(index), "foo\n===\n"))

		link := filepath.Join(prefix.BuildDir, "foo")
		target, err := os.Readlink(link)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("..", "..", "src", "foo"), target)
	})

	t.Run("keeps link with expected target", func(t *testing.T) {
		t.Parallel()

		prefix := newPrefix(t)
		w := sphinx.NewPrefixWriter(nil)
		require.NoError(t, w.WritePrefix(context.Background(), prefix))
		link := filepath.Join(prefix.BuildDir, "foo")
		before, err := os.Lstat(link)
		require.NoError(t, err)

		require.NoError(t, w.WritePrefix(context.Background(), prefix))

		after, err := os.Lstat(link)
		require.NoError(t, err)
		assert.True(t, os.SameFile(before, after), "link should not be recreated")
	})

	t.Run("replaces dangling link", func(t *testing.T) {
		t.Parallel()

		prefix := newPrefix(t)
		require.NoError(t, os.MkdirAll(prefix.BuildDir, 0755))
		link := filepath.Join(prefix.BuildDir, "foo")
		require.NoError(t, os.Symlink("does-not-exist", link))

		require.NoError(t, sphinx.NewPrefixWriter(nil).WritePrefix(context.Background(), prefix))

		target, err := os.Readlink(link)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("..", "..", "src", "foo"), target)
	})

	t.Run("leaves non-link entity alone", func(t *testing.T) {
		t.Parallel()

		prefix := newPrefix(t)
		occupied := filepath.Join(prefix.BuildDir, "foo")
		require.NoError(t, os.MkdirAll(occupied, 0755))

		require.NoError(t, sphinx.NewPrefixWriter(nil).WritePrefix(context.Background(), prefix))

		info, err := os.Lstat(occupied)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Zero(t, info.Mode()&os.ModeSymlink)
	})

	t.Run("rejects invalid prefix", func(t *testing.T) {
		t.Parallel()

		prefix := newPrefix(t)
		prefix.Package.Name = ""

		err := sphinx.NewPrefixWriter(nil).WritePrefix(context.Background(), prefix)

		assert.Equal(t, rosdoc.EINVALID, rosdoc.ErrorCode(err))
	})
}
