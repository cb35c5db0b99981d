package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hotswap-labs/hotswap/internal/artisan"
	"github.com/hotswap-labs/hotswap/internal/branding"
	"github.com/hotswap-labs/hotswap/internal/module"
	"github.com/hotswap-labs/hotswap/internal/scaffold"
)

var (
	modelMigration  bool
	modelController bool
	modelResource   bool

	controllerResource bool
	controllerArtisan  bool
)

func init() {
	modelCmd.Flags().BoolVarP(&modelMigration, "migration", "m", false, "Also create the table migration")
	modelCmd.Flags().BoolVarP(&modelController, "controller", "c", false, "Also create a controller for the model")
	modelCmd.Flags().BoolVarP(&modelResource, "resource", "r", false, "Make the controller a resource controller (implies -c)")
	controllerCmd.Flags().BoolVarP(&controllerResource, "resource", "r", false, "Generate the seven resource methods")
	controllerCmd.Flags().BoolVar(&controllerArtisan, "artisan", false, "Generate with php artisan make:controller instead of the built-in stub")

	rootCmd.AddCommand(modelCmd)
	rootCmd.AddCommand(controllerCmd)
	rootCmd.AddCommand(factoryCmd)
	rootCmd.AddCommand(migrationCmd)
}

var modelCmd = &cobra.Command{
	Use:   "model <package> <name>",
	Short: "Generate an Eloquent model inside a module",
	Long: `Run php artisan make:model, move the result into the module's
src/App/Models directory and rewrite it into the module namespace, wired to
the module's factory.

Examples:
  ` + branding.CLIName() + ` model ecommerce Product -m
  ` + branding.CLIName() + ` model ecommerce ProductCategory -m -r`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, pkg, err := openPackage(cmd, args[0])
		if err != nil {
			return err
		}
		res, err := s.workspace(cmd).MakeModel(cmd.Context(), pkg, args[1], artisan.ModelOptions{
			Migration:  modelMigration,
			Controller: modelController || modelResource,
			Resource:   modelResource,
		})
		if res != nil {
			w := cmd.OutOrStdout()
			printCreated(w, "model", s.rel(res.Model))
			if res.Migration != "" {
				printCreated(w, "migration", res.Migration)
			}
			if res.Controller != "" {
				printCreated(w, "controller", s.rel(res.Controller))
			}
		}
		return err
	},
}

var controllerCmd = &cobra.Command{
	Use:   "controller <package> <name>",
	Short: "Generate a controller inside a module",
	Long: `Write src/App/Http/Controllers/<Name>Controller.php in the module from the
built-in stub. With --resource the controller gets index, create, store,
show, edit, update and destroy, bound to the model of the same name.

With --artisan the framework's make:controller generates the file, which is
then moved into the module and rewritten into its namespace.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if controllerArtisan {
			s, pkg, err := openPackage(cmd, args[0])
			if err != nil {
				return err
			}
			path, err := s.workspace(cmd).MakeController(cmd.Context(), pkg, args[1], controllerResource)
			if err != nil {
				return err
			}
			printCreated(cmd.OutOrStdout(), "controller", s.rel(path))
			return nil
		}

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		tree, err := s.moduleTree(args[0])
		if err != nil {
			return err
		}
		path, err := scaffold.Controller(tree, args[1], controllerResource)
		if err != nil {
			return err
		}
		printCreated(cmd.OutOrStdout(), "controller", s.rel(path))
		return nil
	},
}

var factoryCmd = &cobra.Command{
	Use:   "factory <package> <name>",
	Short: "Generate a model factory inside a module",
	Long: `Write src/databases/factories/<Name>Factory.php in the module. The model is
the name without its Factory suffix.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		tree, err := s.moduleTree(args[0])
		if err != nil {
			return err
		}
		path, err := scaffold.Factory(tree, args[1])
		if err != nil {
			return err
		}
		printCreated(cmd.OutOrStdout(), "factory", s.rel(path))
		return nil
	},
}

var migrationCmd = &cobra.Command{
	Use:   "migration <package> <name>",
	Short: "Generate a migration inside a module",
	Long: `Run php artisan make:migration with its path set to the module's
src/databases/migrations directory. The name is snake-cased and wrapped as
create_<name>_table unless it already has that form.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, pkg, err := openPackage(cmd, args[0])
		if err != nil {
			return err
		}
		name, err := s.workspace(cmd).MakeMigration(cmd.Context(), pkg, args[1])
		if err != nil {
			return err
		}
		printCreated(cmd.OutOrStdout(), "migration", name+" in "+s.settings.Layout().Rel(pkg, module.MigrationsDir))
		return nil
	},
}

func openPackage(cmd *cobra.Command, raw string) (*session, module.Name, error) {
	s, err := openSession(cmd)
	if err != nil {
		return nil, module.Name{}, err
	}
	pkg, err := module.Parse(raw)
	if err != nil {
		return nil, module.Name{}, err
	}
	return s, pkg, nil
}

func printCreated(w io.Writer, kind, what string) {
	fmt.Fprintf(w, "%s %s %s\n", SuccessStyle.Render("created"), targetStyle.Render(kind), what)
}
